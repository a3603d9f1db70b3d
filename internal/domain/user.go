// Package domain 定义了应用程序中使用的数据结构 (数据库模型)。
package domain

import "time"

// User 表示阅读追踪应用中的一个用户。
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"` // 用户唯一标识符 (主键)
	Username   string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null" json:"username"`
	Password   string    `gorm:"type:text;not null" json:"-"` // 存储的是 bcrypt 哈希后的密码，不能为空
	Email      string    `gorm:"type:varchar(191);uniqueIndex:idx_email;not null" json:"email"`
	YearlyGoal int       `gorm:"not null;default:12" json:"yearly_goal"` // 年度阅读目标 (本数)，默认 12
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`       // 用户记录创建时间 (GORM 自动填充)
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`                // 记录最后更新时间 (GORM 自动填充)
}
