package http

import (
	"net/http"

	"reading-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// StatsHandler 封装了统计查询相关的 HTTP 处理逻辑
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler 创建 StatsHandler 实例
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard 处理仪表盘统计查询
func (h *StatsHandler) Dashboard(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	stats, err := h.statsService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, stats)
}

// Yearly 处理年度目标完成情况查询
func (h *StatsHandler) Yearly(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	progress, err := h.statsService.Yearly(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, progress)
}

// Monthly 处理月度完成序列查询 (恒定 12 项，图表直接可用)
func (h *StatsHandler) Monthly(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	series, err := h.statsService.Monthly(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, series)
}

// MostReadAuthor 处理最常读作者查询
func (h *StatsHandler) MostReadAuthor(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	author, err := h.statsService.MostReadAuthor(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if author == nil {
		// 无数据不是错误，沿用 200 + 提示消息
		SuccessResponse(c, http.StatusOK, gin.H{"message": "No data yet"})
		return
	}

	SuccessResponse(c, http.StatusOK, author)
}

// HighestRated 处理评分最高书籍查询
func (h *StatsHandler) HighestRated(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	book, err := h.statsService.HighestRated(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if book == nil {
		SuccessResponse(c, http.StatusOK, gin.H{"message": "No rated books yet"})
		return
	}

	SuccessResponse(c, http.StatusOK, book)
}

// Trending 处理全站热门书查询
func (h *StatsHandler) Trending(c *gin.Context) {
	trending, err := h.statsService.Trending(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if trending == nil {
		SuccessResponse(c, http.StatusOK, gin.H{"message": "No trending data yet"})
		return
	}

	SuccessResponse(c, http.StatusOK, trending)
}
