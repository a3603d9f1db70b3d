package gormpersistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reading-tracker/internal/domain"
)

// newMockBookRepo 基于 sqlmock 构建仓库实例，用于断言生成的 SQL 本身。
// 时间戳和聚合的不变式都活在 SQL 表达式里，只有在这一层才能覆盖到。
func newMockBookRepo(t *testing.T) (*GormBookRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "创建 sqlmock 不应失败")
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err, "打开 gorm 连接不应失败")
	return NewGormBookRepository(db), mock
}

// --- 状态迁移的时间戳规则 ---

func TestGormBookRepository_UpdateStatus_ReadingUsesCoalesceForStartedAt(t *testing.T) {
	// Arrange: reading 迁移必须走 COALESCE，已有的 started_at 永不被覆盖
	repo, mock := newMockBookRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `books` SET `started_at`=COALESCE(started_at, ?)")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Act
	err := repo.UpdateStatus(context.Background(), 1, domain.StatusReading)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "生成的 UPDATE 应包含 COALESCE(started_at, ?)")
}

func TestGormBookRepository_UpdateStatus_RecompleteOverwritesCompletedAt(t *testing.T) {
	// Arrange: completed 迁移无条件覆盖 completed_at，重读再完成时重新盖戳
	repo, mock := newMockBookRepo(t)
	// 两次迁移，两次都是直接赋值而不是 COALESCE
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `books` SET `completed_at`=?,`status`=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `books` SET `completed_at`=?,`status`=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Act
	err := repo.UpdateStatus(context.Background(), 1, domain.StatusCompleted)
	require.NoError(t, err)
	err = repo.UpdateStatus(context.Background(), 1, domain.StatusCompleted)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "每次 completed 迁移都应重新写入 completed_at")
}

func TestGormBookRepository_UpdateStatus_ToReadLeavesTimestampsAlone(t *testing.T) {
	// Arrange: 回到 to_read 只改状态列
	repo, mock := newMockBookRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `books` SET `status`=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Act
	err := repo.UpdateStatus(context.Background(), 1, domain.StatusToRead)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- 聚合统计的 SQL 形状 ---

func TestGormBookRepository_Stats_PageAccountingBranchesOnStatus(t *testing.T) {
	// Arrange: 总页数统计分支 —— 已完成按全书页数计，其余按当前进度计
	repo, mock := newMockBookRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS count FROM `books` WHERE user_id = ? GROUP BY `status`")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("to_read", 2).AddRow("reading", 1).AddRow("completed", 4))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT AVG(rating) FROM `books` WHERE user_id = ? AND rating IS NOT NULL")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(4.25))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT SUM(CASE WHEN status = ? THEN total_pages ELSE current_page END) FROM `books` WHERE user_id = ?")).
		WithArgs("completed", 1).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(1530))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT genre, COUNT(*) AS count FROM `books` WHERE user_id = ? AND genre IS NOT NULL GROUP BY `genre` ORDER BY count DESC")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"genre", "count"}).
			AddRow("sci-fi", 3).AddRow("history", 1))

	// Act
	stats, err := repo.Stats(context.Background(), 1)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.ToRead)
	assert.Equal(t, 1, stats.Reading)
	assert.Equal(t, 4, stats.Completed)
	assert.Equal(t, 4.25, stats.AvgRating)
	assert.Equal(t, 1530, stats.TotalPages)
	require.Len(t, stats.Genres, 2)
	assert.Equal(t, "sci-fi", stats.Genres[0].Genre)
	assert.NoError(t, mock.ExpectationsWereMet(), "总页数应按 SUM(CASE WHEN 完成 THEN 全书页数 ELSE 当前页 END) 计算")
}

func TestGormBookRepository_Stats_NoRatedBooksLeavesAvgZero(t *testing.T) {
	// Arrange: AVG 对空集返回 NULL，应落为 0 而不是报错
	repo, mock := newMockBookRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS count FROM `books` WHERE user_id = ? GROUP BY `status`")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT AVG(rating) FROM `books`")).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT SUM(CASE WHEN status = ? THEN total_pages ELSE current_page END) FROM `books`")).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT genre, COUNT(*) AS count FROM `books`")).
		WillReturnRows(sqlmock.NewRows([]string{"genre", "count"}))

	// Act
	stats, err := repo.Stats(context.Background(), 1)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 0.0, stats.AvgRating)
	assert.Equal(t, 0, stats.TotalPages)
	assert.NotNil(t, stats.Genres)
	assert.Empty(t, stats.Genres)
}

// --- 榜单查询的分组与排序 ---

func TestGormBookRepository_MostReadAuthor_GroupsCompletedByAuthor(t *testing.T) {
	// Arrange: 仅统计已完成书籍，按作者分组取计数第一名
	repo, mock := newMockBookRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT author, COUNT(*) AS count FROM `books` WHERE user_id = ? AND status = ? GROUP BY `author` ORDER BY count DESC")).
		WithArgs(1, "completed").
		WillReturnRows(sqlmock.NewRows([]string{"author", "count"}).AddRow("Frank Herbert", 3))

	// Act
	author, err := repo.MostReadAuthor(context.Background(), 1)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, author)
	assert.Equal(t, "Frank Herbert", author.Author)
	assert.Equal(t, 3, author.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBookRepository_MostReadAuthor_NoCompletedBooks(t *testing.T) {
	// Arrange: 空结果集返回 (nil, nil)，不视为错误
	repo, mock := newMockBookRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT author, COUNT(*) AS count FROM `books`")).
		WillReturnRows(sqlmock.NewRows([]string{"author", "count"}))

	// Act
	author, err := repo.MostReadAuthor(context.Background(), 1)

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, author)
}

func TestGormBookRepository_Trending_OrdersByReadCountThenRating(t *testing.T) {
	// Arrange: 热门书按 (title, author) 分组，仅统计已完成且已评分的书，
	// 阅读次数优先、平均分其次
	repo, mock := newMockBookRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT title, author, AVG(rating) AS avg_rating, COUNT(*) AS read_count FROM `books` WHERE status = ? AND rating IS NOT NULL GROUP BY title, author ORDER BY read_count DESC, avg_rating DESC")).
		WithArgs("completed").
		WillReturnRows(sqlmock.NewRows([]string{"title", "author", "avg_rating", "read_count"}).
			AddRow("Dune", "Frank Herbert", 4.5, 7))

	// Act
	trending, err := repo.Trending(context.Background())

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, trending)
	assert.Equal(t, "Dune", trending.Title)
	assert.Equal(t, 4.5, trending.AvgRating)
	assert.Equal(t, 7, trending.ReadCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBookRepository_MonthlyCompletions_GroupsByMonthWithinYear(t *testing.T) {
	// Arrange: 按 DATE_FORMAT 的 2 位月份分组，年份窗口是左闭右开区间
	repo, mock := newMockBookRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DATE_FORMAT(completed_at, '%m') AS month, COUNT(*) AS count FROM `books` WHERE user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ? GROUP BY `month`")).
		WillReturnRows(sqlmock.NewRows([]string{"month", "count"}).
			AddRow("03", 2).AddRow("11", 1))

	// Act
	data, err := repo.MonthlyCompletions(context.Background(), 1, 2026)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, map[string]int{"03": 2, "11": 1}, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}
