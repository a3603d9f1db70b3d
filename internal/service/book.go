package service

import (
	"context"
	"errors"
	"time"

	"reading-tracker/internal/domain"
	"reading-tracker/internal/repository"

	"github.com/sirupsen/logrus"
)

// BookService 负责书籍生命周期相关的业务逻辑。
type BookService struct {
	bookRepo repository.BookRepository
}

// NewBookService 创建 BookService 实例。
func NewBookService(bookRepo repository.BookRepository) *BookService {
	if bookRepo == nil {
		panic("BookRepository cannot be nil for BookService")
	}
	return &BookService{bookRepo: bookRepo}
}

// Add 在用户书架上创建一本新书。
// status 为空时默认 to_read; 初始状态为 reading 时在创建时就填充 started_at。
func (s *BookService) Add(ctx context.Context, userID uint, title, author string, genre *string, totalPages int, status domain.Status) (*domain.Book, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "title": title})

	if status == "" {
		status = domain.StatusToRead
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if totalPages < 0 {
		totalPages = 0
	}

	book := &domain.Book{
		UserID:     userID,
		Title:      title,
		Author:     author,
		Genre:      genre,
		TotalPages: totalPages,
		Status:     status,
	}
	if status == domain.StatusReading {
		now := time.Now()
		book.StartedAt = &now
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		logCtx.WithError(err).Error("Failed to save new book to database")
		return nil, ErrInternalServer
	}

	logCtx.WithField("book_id", book.ID).Info("Book added successfully")
	return book, nil
}

// Get 返回单本书。
func (s *BookService) Get(ctx context.Context, bookID uint) (*domain.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		logrus.WithError(err).WithField("book_id", bookID).Error("Failed to find book by id")
		return nil, ErrInternalServer
	}
	return book, nil
}

// List 返回用户的书籍，按创建时间降序，可按状态过滤。
func (s *BookService) List(ctx context.Context, userID uint, status domain.Status) ([]domain.Book, error) {
	if status != "" && !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	books, err := s.bookRepo.FindByUser(ctx, userID, status)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to list books")
		return nil, ErrInternalServer
	}
	return books, nil
}

// UpdateStatus 迁移书籍状态。
// 状态机是无限制的: 三个状态之间可以任意迁移。
// 时间戳规则 (started_at 只填一次 / completed_at 每次覆盖) 由仓库层的 SQL 保证。
func (s *BookService) UpdateStatus(ctx context.Context, bookID uint, status domain.Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	err := s.bookRepo.UpdateStatus(ctx, bookID, status)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		logrus.WithError(err).WithField("book_id", bookID).Error("Failed to update book status")
		return ErrInternalServer
	}

	logrus.WithFields(logrus.Fields{"book_id": bookID, "status": status}).Info("Book status updated")
	return nil
}

// UpdateProgress 更新阅读进度并返回本次更新是否触发了自动完成。
// 页码被钳制到 [0, total_pages] (total_pages > 0 时)。
// 统一策略: 钳制后的页码到达正的 total_pages 时，自动迁移到 completed。
func (s *BookService) UpdateProgress(ctx context.Context, bookID uint, page int) (bool, error) {
	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return false, ErrBookNotFound
		}
		logrus.WithError(err).WithField("book_id", bookID).Error("Failed to find book for progress update")
		return false, ErrInternalServer
	}

	// 钳制页码
	if page < 0 {
		page = 0
	}
	if book.TotalPages > 0 && page > book.TotalPages {
		page = book.TotalPages
	}

	if err := s.bookRepo.UpdateProgress(ctx, bookID, page); err != nil {
		logrus.WithError(err).WithField("book_id", bookID).Error("Failed to update reading progress")
		return false, ErrInternalServer
	}

	// 读完最后一页时自动完成，completed_at 的盖戳走同一条状态迁移路径
	if book.TotalPages > 0 && page >= book.TotalPages {
		if err := s.UpdateStatus(ctx, bookID, domain.StatusCompleted); err != nil {
			return false, err
		}
		logrus.WithField("book_id", bookID).Info("Book auto-completed on reaching last page")
		return true, nil
	}

	return false, nil
}

// Rate 写入评分和可选评论。
// 评分范围校验收敛在这里，对任何调用方都成立。
func (s *BookService) Rate(ctx context.Context, bookID uint, rating float64, review *string) error {
	if rating < 1.0 || rating > 5.0 {
		return ErrInvalidRating
	}

	err := s.bookRepo.UpdateRating(ctx, bookID, rating, review)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		logrus.WithError(err).WithField("book_id", bookID).Error("Failed to save rating")
		return ErrInternalServer
	}

	logrus.WithFields(logrus.Fields{"book_id": bookID, "rating": rating}).Info("Book rated")
	return nil
}

// Delete 硬删除一本书。
func (s *BookService) Delete(ctx context.Context, bookID uint) error {
	err := s.bookRepo.Delete(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		logrus.WithError(err).WithField("book_id", bookID).Error("Failed to delete book")
		return ErrInternalServer
	}

	logrus.WithField("book_id", bookID).Info("Book deleted")
	return nil
}
