package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"reading-tracker/internal/domain"
)

// MigrateDB handles all database migrations using the provided GORM DB instance.
// 建表是幂等的: 表已存在时仅做模式检查和索引补齐。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if err := migrateUsersTable(db); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}

	if err := migrateBooksTable(db); err != nil {
		return fmt.Errorf("failed to migrate books table: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

func tableExists(db *gorm.DB, name string) bool {
	var count int64
	db.Raw("SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", name).Count(&count)
	return count > 0
}

// migrateUsersTable 处理 users 表迁移
func migrateUsersTable(db *gorm.DB) error {
	if !tableExists(db, "users") {
		return createUsersTable(db)
	}
	// 表已存在时用 AutoMigrate 补齐新列和索引
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		logrus.Errorf("Failed to auto-migrate users table: %v", err)
		return fmt.Errorf("failed to auto-migrate users table: %w", err)
	}
	logrus.Info("Users table schema checked/updated successfully")
	return nil
}

// createUsersTable 使用自定义 SQL 创建 users 表
// (password 是 TEXT 列，不能直接索引，所以不用 AutoMigrate 建表)
func createUsersTable(db *gorm.DB) error {
	sql := `
	CREATE TABLE users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(191) NOT NULL,
		password TEXT NOT NULL,
		email VARCHAR(191) NOT NULL,
		yearly_goal INT NOT NULL DEFAULT 12,
		created_at DATETIME(3),
		updated_at DATETIME(3),
		UNIQUE INDEX idx_username (username),
		UNIQUE INDEX idx_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create users table: %v", err)
		return fmt.Errorf("failed to create users table: %w", err)
	}
	logrus.Info("Users table created successfully")
	return nil
}

// migrateBooksTable 处理 books 表迁移
func migrateBooksTable(db *gorm.DB) error {
	if !tableExists(db, "books") {
		return createBooksTable(db)
	}
	if err := db.AutoMigrate(&domain.Book{}); err != nil {
		logrus.Errorf("Failed to auto-migrate books table: %v", err)
		return fmt.Errorf("failed to auto-migrate books table: %w", err)
	}
	logrus.Info("Books table schema checked/updated successfully")
	return nil
}

// createBooksTable 使用自定义 SQL 创建 books 表
func createBooksTable(db *gorm.DB) error {
	sql := `
	CREATE TABLE books (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		title VARCHAR(255) NOT NULL,
		author VARCHAR(255) NOT NULL,
		genre VARCHAR(100),
		total_pages INT NOT NULL DEFAULT 0,
		current_page INT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'to_read',
		rating DOUBLE,
		review TEXT,
		started_at DATETIME(3),
		completed_at DATETIME(3),
		created_at DATETIME(3),
		updated_at DATETIME(3),
		INDEX idx_books_user_id (user_id),
		INDEX idx_books_author (author),
		INDEX idx_books_status (status),
		INDEX idx_books_completed_at (completed_at),
		CONSTRAINT fk_books_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create books table: %v", err)
		return fmt.Errorf("failed to create books table: %w", err)
	}
	logrus.Info("Books table created successfully")
	return nil
}
