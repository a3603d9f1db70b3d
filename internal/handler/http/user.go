package http

import (
	"net/http"
	"strconv"

	"reading-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserHandler 封装了与用户信息相关的 HTTP 处理逻辑
type UserHandler struct {
	authService *service.AuthService
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GetUser 处理根据 ID 查询用户的请求
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, user)
}

// GoalUpdateRequest 定义更新年度目标请求的结构体
type GoalUpdateRequest struct {
	Goal int `json:"goal" binding:"required"`
}

// UpdateGoal 处理更新年度阅读目标的请求
func (h *UserHandler) UpdateGoal(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req GoalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.UpdateGoal: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: goal is required")
		return
	}

	if err := h.authService.UpdateGoal(c.Request.Context(), userID, req.Goal); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "Goal updated successfully"})
}

// parseUintParam 解析路径参数为 uint，失败时直接写出 400 响应
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		logrus.WithField(name, raw).Warn("Invalid numeric path parameter")
		ErrorResponse(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(value), true
}
