package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"reading-tracker/internal/domain"
	"reading-tracker/internal/repository"

	"github.com/sirupsen/logrus"
)

// StatsService 负责仪表盘统计数据的计算。
// 所有统计都是按需全量计算，不做缓存，也没有增量更新。
type StatsService struct {
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
}

// NewStatsService 创建 StatsService 实例。
func NewStatsService(bookRepo repository.BookRepository, userRepo repository.UserRepository) *StatsService {
	if bookRepo == nil || userRepo == nil {
		panic("repositories cannot be nil for StatsService")
	}
	return &StatsService{bookRepo: bookRepo, userRepo: userRepo}
}

// DashboardStats 是仪表盘的聚合结果。
type DashboardStats struct {
	ToRead     int                     `json:"to_read"`
	Reading    int                     `json:"reading"`
	Completed  int                     `json:"completed"`
	AvgRating  float64                 `json:"avg_rating"`  // 保留一位小数; 无已评分书籍时为 0
	TotalPages int                     `json:"total_pages"` // 已完成按全书页数计，其余按当前进度计
	Genres     []repository.GenreCount `json:"genres"`      // 按数量降序
}

// YearlyProgress 是年度目标完成情况。
type YearlyProgress struct {
	Goal       int     `json:"goal"`
	Completed  int     `json:"completed"`
	Remaining  int     `json:"remaining"`
	Percentage float64 `json:"percentage"` // goal <= 0 时恒为 0
}

// MonthlyEntry 是月度完成序列中的一项。
type MonthlyEntry struct {
	Month          int    `json:"month"`
	MonthName      string `json:"month_name"`
	BooksCompleted int    `json:"books_completed"`
}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Dashboard 计算用户的仪表盘统计。
func (s *StatsService) Dashboard(ctx context.Context, userID uint) (*DashboardStats, error) {
	raw, err := s.bookRepo.Stats(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to compute dashboard stats")
		return nil, ErrInternalServer
	}

	genres := raw.Genres
	if genres == nil {
		genres = []repository.GenreCount{}
	}

	return &DashboardStats{
		ToRead:     raw.ToRead,
		Reading:    raw.Reading,
		Completed:  raw.Completed,
		AvgRating:  round1(raw.AvgRating),
		TotalPages: raw.TotalPages,
		Genres:     genres,
	}, nil
}

// Yearly 计算当前日历年度的目标完成情况。
// goal <= 0 时 percentage 固定为 0，显式防止除零。
func (s *StatsService) Yearly(ctx context.Context, userID uint) (*YearlyProgress, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to find user for yearly progress")
		return nil, ErrInternalServer
	}

	year := time.Now().Year()
	completed, err := s.bookRepo.CountCompleted(ctx, userID, &year)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to count completed books")
		return nil, ErrInternalServer
	}

	goal := user.YearlyGoal
	progress := &YearlyProgress{
		Goal:      goal,
		Completed: completed,
		Remaining: max(0, goal-completed),
	}
	if goal > 0 {
		progress.Percentage = round1(float64(completed) / float64(goal) * 100)
	}
	return progress, nil
}

// Monthly 返回当前日历年度的月度完成序列。
// 恒定返回 12 项，月份 1..12，无数据的月份补零 —— 图表消费方依赖这个全序。
func (s *StatsService) Monthly(ctx context.Context, userID uint) ([]MonthlyEntry, error) {
	year := time.Now().Year()
	data, err := s.bookRepo.MonthlyCompletions(ctx, userID, year)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to load monthly completions")
		return nil, ErrInternalServer
	}

	series := make([]MonthlyEntry, 0, 12)
	for i := 1; i <= 12; i++ {
		key := fmt.Sprintf("%02d", i)
		series = append(series, MonthlyEntry{
			Month:          i,
			MonthName:      monthNames[i-1],
			BooksCompleted: data[key],
		})
	}
	return series, nil
}

// MostReadAuthor 返回已完成书籍中出现次数最多的作者，无数据时返回 (nil, nil)。
func (s *StatsService) MostReadAuthor(ctx context.Context, userID uint) (*repository.AuthorCount, error) {
	author, err := s.bookRepo.MostReadAuthor(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to query most read author")
		return nil, ErrInternalServer
	}
	return author, nil
}

// HighestRated 返回用户评分最高的书，无数据时返回 (nil, nil)。
func (s *StatsService) HighestRated(ctx context.Context, userID uint) (*domain.Book, error) {
	book, err := s.bookRepo.HighestRated(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to query highest rated book")
		return nil, ErrInternalServer
	}
	return book, nil
}

// Trending 返回全体用户范围内的热门书，无数据时返回 (nil, nil)。
func (s *StatsService) Trending(ctx context.Context) (*repository.TrendingBook, error) {
	trending, err := s.bookRepo.Trending(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to query trending book")
		return nil, ErrInternalServer
	}
	return trending, nil
}

// round1 四舍五入保留一位小数
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
