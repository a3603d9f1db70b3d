package gormpersistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"reading-tracker/internal/domain"
	"reading-tracker/internal/repository"
)

// GormBookRepository 是 BookRepository 接口的 GORM 实现
type GormBookRepository struct {
	db *gorm.DB
}

// NewGormBookRepository 创建 GormBookRepository 实例
func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	if db == nil {
		panic("database connection cannot be nil for GormBookRepository")
	}
	return &GormBookRepository{db: db}
}

// Create 实现创建新书
func (r *GormBookRepository) Create(ctx context.Context, book *domain.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("gorm: create book (user: %d, title: %s): %w", book.UserID, book.Title, err)
	}
	return nil
}

// FindByID 实现根据书籍 ID 查找
func (r *GormBookRepository) FindByID(ctx context.Context, id uint) (*domain.Book, error) {
	var book domain.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookNotFound
		}
		return nil, fmt.Errorf("gorm: find book by id %d: %w", id, err)
	}
	return &book, nil
}

// FindByUser 实现查询用户书架，按创建时间降序
func (r *GormBookRepository) FindByUser(ctx context.Context, userID uint, status domain.Status) ([]domain.Book, error) {
	var books []domain.Book
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find books for user %d: %w", userID, err)
	}
	return books, nil
}

// UpdateStatus 实现状态迁移及时间戳处理:
// reading 使用 COALESCE 保证 started_at 只填充一次，completed 每次覆盖 completed_at。
func (r *GormBookRepository) UpdateStatus(ctx context.Context, id uint, status domain.Status) error {
	now := time.Now()
	updates := map[string]interface{}{"status": status}
	switch status {
	case domain.StatusReading:
		updates["started_at"] = gorm.Expr("COALESCE(started_at, ?)", now)
	case domain.StatusCompleted:
		updates["completed_at"] = now
	}

	result := r.db.WithContext(ctx).Model(&domain.Book{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("gorm: update status of book %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return r.notFoundIfMissing(ctx, id)
	}
	return nil
}

// UpdateProgress 实现更新当前页码
func (r *GormBookRepository) UpdateProgress(ctx context.Context, id uint, page int) error {
	result := r.db.WithContext(ctx).Model(&domain.Book{}).
		Where("id = ?", id).
		Update("current_page", page)
	if result.Error != nil {
		return fmt.Errorf("gorm: update progress of book %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return r.notFoundIfMissing(ctx, id)
	}
	return nil
}

// UpdateRating 实现写入评分和评论
func (r *GormBookRepository) UpdateRating(ctx context.Context, id uint, rating float64, review *string) error {
	// review 为 nil 时写入 NULL，与原有评论被清空等价
	result := r.db.WithContext(ctx).Model(&domain.Book{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"rating": rating, "review": review})
	if result.Error != nil {
		return fmt.Errorf("gorm: update rating of book %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return r.notFoundIfMissing(ctx, id)
	}
	return nil
}

// Delete 实现硬删除
func (r *GormBookRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("gorm: delete book %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrBookNotFound
	}
	return nil
}

// notFoundIfMissing 区分 "记录不存在" 和 "更新值与原值相同"。
// MySQL 的 UPDATE 对无变化的行报告 0 行受影响，不能直接当作未找到。
func (r *GormBookRepository) notFoundIfMissing(ctx context.Context, id uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("gorm: check book %d existence: %w", id, err)
	}
	if count == 0 {
		return repository.ErrBookNotFound
	}
	return nil
}

// --- 聚合统计查询 ---

// Stats 实现单用户书架的聚合统计。
// 每次调用都是对该用户书籍的全量扫描，不做缓存。
func (r *GormBookRepository) Stats(ctx context.Context, userID uint) (*repository.BookStats, error) {
	stats := &repository.BookStats{Genres: []repository.GenreCount{}}

	// 1. 按状态分组计数
	var statusRows []struct {
		Status string
		Count  int
	}
	err := r.db.WithContext(ctx).Model(&domain.Book{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&statusRows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: count books by status for user %d: %w", userID, err)
	}
	for _, row := range statusRows {
		switch domain.Status(row.Status) {
		case domain.StatusToRead:
			stats.ToRead = row.Count
		case domain.StatusReading:
			stats.Reading = row.Count
		case domain.StatusCompleted:
			stats.Completed = row.Count
		}
	}

	// 2. 已评分书籍的平均分
	var avgRating sql.NullFloat64
	err = r.db.WithContext(ctx).Model(&domain.Book{}).
		Select("AVG(rating)").
		Where("user_id = ? AND rating IS NOT NULL", userID).
		Scan(&avgRating).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: average rating for user %d: %w", userID, err)
	}
	if avgRating.Valid {
		stats.AvgRating = avgRating.Float64
	}

	// 3. 总阅读页数: 已完成按全书页数计，其余按当前进度计
	var totalPages sql.NullInt64
	err = r.db.WithContext(ctx).Model(&domain.Book{}).
		Select("SUM(CASE WHEN status = ? THEN total_pages ELSE current_page END)", domain.StatusCompleted).
		Where("user_id = ?", userID).
		Scan(&totalPages).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: total pages for user %d: %w", userID, err)
	}
	stats.TotalPages = int(totalPages.Int64)

	// 4. 分类直方图，按数量降序
	err = r.db.WithContext(ctx).Model(&domain.Book{}).
		Select("genre, COUNT(*) AS count").
		Where("user_id = ? AND genre IS NOT NULL", userID).
		Group("genre").
		Order("count DESC").
		Scan(&stats.Genres).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: genre histogram for user %d: %w", userID, err)
	}

	return stats, nil
}

// CountCompleted 实现已完成书籍计数，year 非 nil 时按 completed_at 限定年份
func (r *GormBookRepository) CountCompleted(ctx context.Context, userID uint, year *int) (int, error) {
	query := r.db.WithContext(ctx).Model(&domain.Book{}).
		Where("user_id = ? AND status = ?", userID, domain.StatusCompleted)
	if year != nil {
		start := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.Local)
		end := start.AddDate(1, 0, 0)
		query = query.Where("completed_at >= ? AND completed_at < ?", start, end)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gorm: count completed books for user %d: %w", userID, err)
	}
	return int(count), nil
}

// MostReadAuthor 实现已完成书籍中出现次数最多的作者查询
func (r *GormBookRepository) MostReadAuthor(ctx context.Context, userID uint) (*repository.AuthorCount, error) {
	var row repository.AuthorCount
	result := r.db.WithContext(ctx).Model(&domain.Book{}).
		Select("author, COUNT(*) AS count").
		Where("user_id = ? AND status = ?", userID, domain.StatusCompleted).
		Group("author").
		Order("count DESC").
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("gorm: most read author for user %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil // 无已完成书籍
	}
	return &row, nil
}

// HighestRated 实现评分最高的书查询
func (r *GormBookRepository) HighestRated(ctx context.Context, userID uint) (*domain.Book, error) {
	var book domain.Book
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND rating IS NOT NULL", userID).
		Order("rating DESC").
		First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 无已评分书籍
		}
		return nil, fmt.Errorf("gorm: highest rated book for user %d: %w", userID, err)
	}
	return &book, nil
}

// Trending 实现全体用户范围内的热门书查询:
// 按 (title, author) 分组，仅统计已完成且已评分的书，
// 按阅读次数降序、平均分降序取第一名。
func (r *GormBookRepository) Trending(ctx context.Context) (*repository.TrendingBook, error) {
	var row repository.TrendingBook
	result := r.db.WithContext(ctx).Model(&domain.Book{}).
		Select("title, author, AVG(rating) AS avg_rating, COUNT(*) AS read_count").
		Where("status = ? AND rating IS NOT NULL", domain.StatusCompleted).
		Group("title, author").
		Order("read_count DESC, avg_rating DESC").
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("gorm: trending book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

// MonthlyCompletions 实现按月统计某年的完成数量
func (r *GormBookRepository) MonthlyCompletions(ctx context.Context, userID uint, year int) (map[string]int, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(1, 0, 0)

	var rows []struct {
		Month string
		Count int
	}
	err := r.db.WithContext(ctx).Model(&domain.Book{}).
		Select("DATE_FORMAT(completed_at, '%m') AS month, COUNT(*) AS count").
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			userID, domain.StatusCompleted, start, end).
		Group("month").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: monthly completions for user %d in %d: %w", userID, year, err)
	}

	data := make(map[string]int, len(rows))
	for _, row := range rows {
		data[row.Month] = row.Count
	}
	return data, nil
}
