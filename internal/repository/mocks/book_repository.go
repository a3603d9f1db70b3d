package mocks

import (
	"context"

	"reading-tracker/internal/domain"
	"reading-tracker/internal/repository"

	"github.com/stretchr/testify/mock"
)

// BookRepository 是 repository.BookRepository 的 Mock 实现。
type BookRepository struct {
	mock.Mock
}

func (m *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *BookRepository) FindByID(ctx context.Context, id uint) (*domain.Book, error) {
	args := m.Called(ctx, id)
	var book *domain.Book
	if args.Get(0) != nil {
		book = args.Get(0).(*domain.Book)
	}
	return book, args.Error(1)
}

func (m *BookRepository) FindByUser(ctx context.Context, userID uint, status domain.Status) ([]domain.Book, error) {
	args := m.Called(ctx, userID, status)
	var books []domain.Book
	if args.Get(0) != nil {
		books = args.Get(0).([]domain.Book)
	}
	return books, args.Error(1)
}

func (m *BookRepository) UpdateStatus(ctx context.Context, id uint, status domain.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *BookRepository) UpdateProgress(ctx context.Context, id uint, page int) error {
	args := m.Called(ctx, id, page)
	return args.Error(0)
}

func (m *BookRepository) UpdateRating(ctx context.Context, id uint, rating float64, review *string) error {
	args := m.Called(ctx, id, rating, review)
	return args.Error(0)
}

func (m *BookRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BookRepository) Stats(ctx context.Context, userID uint) (*repository.BookStats, error) {
	args := m.Called(ctx, userID)
	var stats *repository.BookStats
	if args.Get(0) != nil {
		stats = args.Get(0).(*repository.BookStats)
	}
	return stats, args.Error(1)
}

func (m *BookRepository) CountCompleted(ctx context.Context, userID uint, year *int) (int, error) {
	args := m.Called(ctx, userID, year)
	return args.Int(0), args.Error(1)
}

func (m *BookRepository) MostReadAuthor(ctx context.Context, userID uint) (*repository.AuthorCount, error) {
	args := m.Called(ctx, userID)
	var author *repository.AuthorCount
	if args.Get(0) != nil {
		author = args.Get(0).(*repository.AuthorCount)
	}
	return author, args.Error(1)
}

func (m *BookRepository) HighestRated(ctx context.Context, userID uint) (*domain.Book, error) {
	args := m.Called(ctx, userID)
	var book *domain.Book
	if args.Get(0) != nil {
		book = args.Get(0).(*domain.Book)
	}
	return book, args.Error(1)
}

func (m *BookRepository) Trending(ctx context.Context) (*repository.TrendingBook, error) {
	args := m.Called(ctx)
	var trending *repository.TrendingBook
	if args.Get(0) != nil {
		trending = args.Get(0).(*repository.TrendingBook)
	}
	return trending, args.Error(1)
}

func (m *BookRepository) MonthlyCompletions(ctx context.Context, userID uint, year int) (map[string]int, error) {
	args := m.Called(ctx, userID, year)
	var data map[string]int
	if args.Get(0) != nil {
		data = args.Get(0).(map[string]int)
	}
	return data, args.Error(1)
}
