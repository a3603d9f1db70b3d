package service_test

import (
	"context"
	"errors"
	"testing"

	"reading-tracker/internal/domain"
	"reading-tracker/internal/repository"
	"reading-tracker/internal/repository/mocks"
	"reading-tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- 测试 Add 方法 ---

func TestBookService_Add_DefaultsToToRead(t *testing.T) {
	// Arrange
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)
	ctx := context.Background()

	mockBookRepo.On("Create", ctx, mock.MatchedBy(func(book *domain.Book) bool {
		return book.Status == domain.StatusToRead && book.StartedAt == nil
	})).
		Run(func(args mock.Arguments) { // 模拟数据库填充主键
			args.Get(1).(*domain.Book).ID = 7
		}).
		Return(nil).
		Once()

	// Act: status 留空
	book, err := bookService.Add(ctx, 1, "Dune", "Frank Herbert", nil, 412, "")

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, uint(7), book.ID)
	assert.Equal(t, domain.StatusToRead, book.Status, "未指定状态时应默认 to_read")

	mockBookRepo.AssertExpectations(t)
}

func TestBookService_Add_ReadingStampsStartedAt(t *testing.T) {
	// Arrange
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)
	ctx := context.Background()

	mockBookRepo.On("Create", ctx, mock.AnythingOfType("*domain.Book")).Return(nil).Once()

	// Act: 直接以 reading 状态入库
	book, err := bookService.Add(ctx, 1, "Dune", "Frank Herbert", nil, 412, domain.StatusReading)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, book)
	assert.NotNil(t, book.StartedAt, "以 reading 状态创建时应立即填充 started_at")

	mockBookRepo.AssertExpectations(t)
}

func TestBookService_Add_InvalidStatus(t *testing.T) {
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)

	_, err := bookService.Add(context.Background(), 1, "Dune", "Frank Herbert", nil, 412, "finished")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidStatus))
	mockBookRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- 测试 List 方法 ---

func TestBookService_List_InvalidStatusFilter(t *testing.T) {
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)

	_, err := bookService.List(context.Background(), 1, "abandoned")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidStatus))
	mockBookRepo.AssertNotCalled(t, "FindByUser", mock.Anything, mock.Anything, mock.Anything)
}

// --- 测试 UpdateStatus 方法 ---

func TestBookService_UpdateStatus_InvalidStatus(t *testing.T) {
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)

	err := bookService.UpdateStatus(context.Background(), 1, "paused")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidStatus))
	mockBookRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookService_UpdateStatus_BookNotFound(t *testing.T) {
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)
	ctx := context.Background()

	mockBookRepo.On("UpdateStatus", ctx, uint(99), domain.StatusCompleted).
		Return(repository.ErrBookNotFound).Once()

	err := bookService.UpdateStatus(ctx, 99, domain.StatusCompleted)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrBookNotFound))
	mockBookRepo.AssertExpectations(t)
}

// --- 测试 UpdateProgress 方法 ---

func TestBookService_UpdateProgress_ClampsToTotalAndAutoCompletes(t *testing.T) {
	// Arrange: 全书 300 页，请求更新到 500 页
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)
	ctx := context.Background()
	bookInDb := &domain.Book{ID: 1, UserID: 1, Title: "Dune", TotalPages: 300, CurrentPage: 100, Status: domain.StatusReading}

	mockBookRepo.On("FindByID", ctx, uint(1)).Return(bookInDb, nil).Once()
	// 页码应被钳制到 300，随后触发自动完成迁移
	mockBookRepo.On("UpdateProgress", ctx, uint(1), 300).Return(nil).Once()
	mockBookRepo.On("UpdateStatus", ctx, uint(1), domain.StatusCompleted).Return(nil).Once()

	// Act
	completed, err := bookService.UpdateProgress(ctx, 1, 500)

	// Assert
	assert.NoError(t, err)
	assert.True(t, completed, "读完最后一页应返回 completed=true")

	mockBookRepo.AssertExpectations(t)
}

func TestBookService_UpdateProgress_MidBookNoAutoComplete(t *testing.T) {
	// Arrange
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)
	ctx := context.Background()
	bookInDb := &domain.Book{ID: 1, UserID: 1, Title: "Dune", TotalPages: 300, Status: domain.StatusReading}

	mockBookRepo.On("FindByID", ctx, uint(1)).Return(bookInDb, nil).Once()
	mockBookRepo.On("UpdateProgress", ctx, uint(1), 150).Return(nil).Once()

	// Act
	completed, err := bookService.UpdateProgress(ctx, 1, 150)

	// Assert: 未到最后一页，不应触碰状态
	assert.NoError(t, err)
	assert.False(t, completed)
	mockBookRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	mockBookRepo.AssertExpectations(t)
}

func TestBookService_UpdateProgress_NegativeClampsToZero(t *testing.T) {
	// Arrange
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)
	ctx := context.Background()
	bookInDb := &domain.Book{ID: 1, UserID: 1, Title: "Dune", TotalPages: 300, CurrentPage: 50, Status: domain.StatusReading}

	mockBookRepo.On("FindByID", ctx, uint(1)).Return(bookInDb, nil).Once()
	mockBookRepo.On("UpdateProgress", ctx, uint(1), 0).Return(nil).Once()

	// Act
	completed, err := bookService.UpdateProgress(ctx, 1, -20)

	// Assert
	assert.NoError(t, err)
	assert.False(t, completed)
	mockBookRepo.AssertExpectations(t)
}

func TestBookService_UpdateProgress_UnknownTotalNeverCompletes(t *testing.T) {
	// Arrange: total_pages 为 0 表示页数未知，任何页码都不钳制也不自动完成
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)
	ctx := context.Background()
	bookInDb := &domain.Book{ID: 1, UserID: 1, Title: "Essays", TotalPages: 0, Status: domain.StatusReading}

	mockBookRepo.On("FindByID", ctx, uint(1)).Return(bookInDb, nil).Once()
	mockBookRepo.On("UpdateProgress", ctx, uint(1), 800).Return(nil).Once()

	// Act
	completed, err := bookService.UpdateProgress(ctx, 1, 800)

	// Assert
	assert.NoError(t, err)
	assert.False(t, completed)
	mockBookRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	mockBookRepo.AssertExpectations(t)
}

func TestBookService_UpdateProgress_BookNotFound(t *testing.T) {
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)
	ctx := context.Background()

	mockBookRepo.On("FindByID", ctx, uint(404)).Return(nil, repository.ErrBookNotFound).Once()

	_, err := bookService.UpdateProgress(ctx, 404, 10)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrBookNotFound))
	mockBookRepo.AssertExpectations(t)
}

// --- 测试 Rate 方法 ---

func TestBookService_Rate_Success(t *testing.T) {
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)
	ctx := context.Background()
	review := "A masterpiece."

	mockBookRepo.On("UpdateRating", ctx, uint(1), 4.5, &review).Return(nil).Once()

	err := bookService.Rate(ctx, 1, 4.5, &review)

	assert.NoError(t, err)
	mockBookRepo.AssertExpectations(t)
}

func TestBookService_Rate_OutOfRange(t *testing.T) {
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)
	ctx := context.Background()

	// 评分必须落在 [1.0, 5.0]
	for _, rating := range []float64{0.5, 0, 6.0, -1} {
		err := bookService.Rate(ctx, 1, rating, nil)
		require.Error(t, err, "rating=%v 应校验失败", rating)
		assert.True(t, errors.Is(err, service.ErrInvalidRating))
	}
	mockBookRepo.AssertNotCalled(t, "UpdateRating", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- 测试 Delete 方法 ---

func TestBookService_Delete_BookNotFound(t *testing.T) {
	mockBookRepo := new(mocks.BookRepository)
	bookService := service.NewBookService(mockBookRepo)
	ctx := context.Background()

	mockBookRepo.On("Delete", ctx, uint(99)).Return(repository.ErrBookNotFound).Once()

	err := bookService.Delete(ctx, 99)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrBookNotFound))
	mockBookRepo.AssertExpectations(t)
}
