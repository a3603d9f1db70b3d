package service

import "errors"

// 业务层错误。Handler 层根据这些错误决定 HTTP 状态码。
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrBookNotFound         = errors.New("book not found")
	ErrAuthenticationFailed = errors.New("invalid username or password")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	ErrInternalServer       = errors.New("internal server error")

	// 输入校验错误 (立即报告给调用方，不产生任何副作用)
	ErrInvalidUsername = errors.New("username must be at least 3 characters")
	ErrInvalidPassword = errors.New("password must be at least 6 characters")
	ErrInvalidEmail    = errors.New("please enter a valid email")
	ErrInvalidGoal     = errors.New("goal must be between 1 and 100")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus   = errors.New("invalid book status")
)
