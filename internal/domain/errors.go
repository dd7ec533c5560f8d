package domain

import "errors"

// 业务错误集中在这里，transport 层统一映射状态码。
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrWrongPassword      = errors.New("current password incorrect")
	ErrForbidden          = errors.New("forbidden")
	ErrMailDelivery       = errors.New("mail delivery failed")
)
