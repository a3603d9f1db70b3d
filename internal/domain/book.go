package domain

import (
	"math"
	"time"
)

// Status 表示一本书在阅读生命周期中的位置。
type Status string

const (
	StatusToRead    Status = "to_read"
	StatusReading   Status = "reading"
	StatusCompleted Status = "completed"
)

// IsValid 检查状态值是否是三个合法状态之一。
// 注意: 状态机本身是无限制的，任意状态都可以迁移到任意其他状态，
// 这里只校验取值合法性，不校验迁移路径。
func (s Status) IsValid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusCompleted:
		return true
	}
	return false
}

// Book 表示用户书架上的一本书。
type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"` // 外键关联到 User.ID
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Author      string     `gorm:"type:varchar(255);not null;index" json:"author"`
	Genre       *string    `gorm:"type:varchar(100)" json:"genre,omitempty"` // 分类可选
	TotalPages  int        `gorm:"not null;default:0" json:"total_pages"`
	CurrentPage int        `gorm:"not null;default:0" json:"current_page"`
	Status      Status     `gorm:"type:varchar(20);not null;default:'to_read';index" json:"status"`
	Rating      *float64   `json:"rating,omitempty"`                // 评分 1.0~5.0，未评分为 NULL
	Review      *string    `gorm:"type:text" json:"review,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`            // 首次进入 reading 状态时填充，之后不再覆盖
	CompletedAt *time.Time `gorm:"index" json:"completed_at,omitempty"` // 每次进入 completed 状态时覆盖
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"-"`
}

// Progress 计算阅读进度百分比 (保留一位小数)。
// total_pages 为 0 时返回 0，避免除零。
func (b *Book) Progress() float64 {
	if b.TotalPages <= 0 {
		return 0
	}
	return math.Round(float64(b.CurrentPage)/float64(b.TotalPages)*1000) / 10
}
