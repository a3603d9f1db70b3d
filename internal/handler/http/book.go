package http

import (
	"net/http"

	"reading-tracker/internal/domain"
	"reading-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BookHandler 封装了书籍生命周期相关的 HTTP 处理逻辑
type BookHandler struct {
	bookService *service.BookService
}

// NewBookHandler 创建 BookHandler 实例
func NewBookHandler(bookService *service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// AddBookRequest 定义添加书籍请求的结构体
type AddBookRequest struct {
	UserID     uint    `json:"user_id" binding:"required"`
	Title      string  `json:"title" binding:"required"`
	Author     string  `json:"author" binding:"required"`
	Genre      *string `json:"genre"`
	TotalPages int     `json:"total_pages" binding:"omitempty,gte=0"`
	Status     string  `json:"status"` // 为空时默认 to_read
}

// AddBook 处理添加书籍的请求
func (h *BookHandler) AddBook(c *gin.Context) {
	var req AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.AddBook: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: user_id, title and author required")
		return
	}

	book, err := h.bookService.Add(c.Request.Context(), req.UserID, req.Title, req.Author,
		req.Genre, req.TotalPages, domain.Status(req.Status))
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": req.UserID, "book_id": book.ID}).Info("Handler.AddBook: Book added")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Book added", "book_id": book.ID})
}

// ListBooks 处理查询用户书架的请求，可用 ?status= 过滤
func (h *BookHandler) ListBooks(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}
	status := domain.Status(c.Query("status"))

	books, err := h.bookService.List(c.Request.Context(), userID, status)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if books == nil {
		books = []domain.Book{}
	}

	SuccessResponse(c, http.StatusOK, books)
}

// GetBook 处理查询单本书的请求
func (h *BookHandler) GetBook(c *gin.Context) {
	bookID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	book, err := h.bookService.Get(c.Request.Context(), bookID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, book)
}

// StatusUpdateRequest 定义状态迁移请求的结构体
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 处理状态迁移的请求
func (h *BookHandler) UpdateStatus(c *gin.Context) {
	bookID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.UpdateStatus: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: status is required")
		return
	}

	if err := h.bookService.UpdateStatus(c.Request.Context(), bookID, domain.Status(req.Status)); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "Status updated"})
}

// ProgressUpdateRequest 定义进度更新请求的结构体。
// 负值不在这里拒绝，Service 层统一钳制到 [0, total_pages]。
type ProgressUpdateRequest struct {
	CurrentPage int `json:"current_page"`
}

// UpdateProgress 处理进度更新的请求。
// 响应中的 completed 标记本次更新是否触发了自动完成。
func (h *BookHandler) UpdateProgress(c *gin.Context) {
	bookID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req ProgressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.UpdateProgress: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: current_page must be an integer")
		return
	}

	completed, err := h.bookService.UpdateProgress(c.Request.Context(), bookID, req.CurrentPage)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "Progress updated", "completed": completed})
}

// RatingRequest 定义评分请求的结构体
type RatingRequest struct {
	Rating float64 `json:"rating" binding:"required,gte=1,lte=5"`
	Review *string `json:"review"`
}

// RateBook 处理评分和评论的请求
func (h *BookHandler) RateBook(c *gin.Context) {
	bookID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.RateBook: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	if err := h.bookService.Rate(c.Request.Context(), bookID, req.Rating, req.Review); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "Rating saved"})
}

// DeleteBook 处理删除书籍的请求
func (h *BookHandler) DeleteBook(c *gin.Context) {
	bookID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.bookService.Delete(c.Request.Context(), bookID); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "Book deleted"})
}
