package repository

import (
	"context"

	"reading-tracker/internal/domain"
)

// GenreCount 表示某个分类下的书籍数量。
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// AuthorCount 表示某个作者名下已完成书籍的数量。
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// TrendingBook 是全体用户范围内按 (title, author) 聚合出的热门书。
type TrendingBook struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	AvgRating float64 `json:"avg_rating"`
	ReadCount int     `json:"read_count"`
}

// BookStats 是单用户书架的聚合结果。
type BookStats struct {
	ToRead     int
	Reading    int
	Completed  int
	AvgRating  float64 // 已评分书籍的平均分，未四舍五入; 无评分时为 0
	TotalPages int     // 已完成按 total_pages 计，其余按 current_page 计
	Genres     []GenreCount // 按数量降序，仅含 genre 非空的书
}

// BookRepository 定义了书籍数据的存储、检索与聚合统计操作。
type BookRepository interface {
	// Create 创建新书，创建后 book.ID 被填充。
	Create(ctx context.Context, book *domain.Book) error

	// FindByID 根据书籍 ID 查找，不存在时返回 ErrBookNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Book, error)

	// FindByUser 返回用户的书籍，按创建时间降序。
	// status 为空字符串时不过滤。
	FindByUser(ctx context.Context, userID uint, status domain.Status) ([]domain.Book, error)

	// UpdateStatus 更新状态并处理时间戳:
	// reading 仅在 started_at 为空时填充 (COALESCE)，completed 每次覆盖 completed_at。
	// 书不存在时返回 ErrBookNotFound。
	UpdateStatus(ctx context.Context, id uint, status domain.Status) error

	// UpdateProgress 更新当前页码。书不存在时返回 ErrBookNotFound。
	UpdateProgress(ctx context.Context, id uint, page int) error

	// UpdateRating 写入评分和评论 (review 为 nil 时清空评论)。
	// 书不存在时返回 ErrBookNotFound。
	UpdateRating(ctx context.Context, id uint, rating float64, review *string) error

	// Delete 硬删除一本书。书不存在时返回 ErrBookNotFound。
	Delete(ctx context.Context, id uint) error

	// Stats 返回用户书架的聚合统计。
	Stats(ctx context.Context, userID uint) (*BookStats, error)

	// CountCompleted 统计已完成书籍数量。
	// year 非 nil 时仅统计 completed_at 落在该年 [1月1日, 次年1月1日) 的记录。
	CountCompleted(ctx context.Context, userID uint, year *int) (int, error)

	// MostReadAuthor 返回已完成书籍中出现次数最多的作者。
	// 并列时由底层排序任意决定; 无数据时返回 (nil, nil)。
	MostReadAuthor(ctx context.Context, userID uint) (*AuthorCount, error)

	// HighestRated 返回评分最高的书。
	// 并列时任意; 无已评分书籍时返回 (nil, nil)。
	HighestRated(ctx context.Context, userID uint) (*domain.Book, error)

	// Trending 返回全体用户范围内的热门书:
	// 仅统计已完成且已评分的书，按阅读次数降序、平均分降序。
	// 无数据时返回 (nil, nil)。
	Trending(ctx context.Context) (*TrendingBook, error)

	// MonthlyCompletions 返回 2 位月份字符串 ("01".."12") 到该月完成数量的映射。
	// 仅含有完成记录的月份，补零由 Service 层负责。
	MonthlyCompletions(ctx context.Context, userID uint, year int) (map[string]int, error)
}
