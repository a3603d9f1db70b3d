package repository

import (
	"context"

	"reading-tracker/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// Create 创建新用户。
	// 用户名或邮箱违反唯一约束时返回 ErrDuplicateEntry。
	Create(ctx context.Context, user *domain.User) error

	// FindByUsername 根据用户名查找用户。
	// 用户不存在时返回 ErrUserNotFound。
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户。
	// 用户不存在时返回 ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// UpdateGoal 更新用户的年度阅读目标。
	// 用户不存在时返回 ErrUserNotFound。
	UpdateGoal(ctx context.Context, id uint, goal int) error
}
