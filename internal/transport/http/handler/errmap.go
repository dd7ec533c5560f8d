package handler

import (
	"errors"

	"go-auth-api/internal/domain"
	"go-auth-api/internal/transport/http/ez"
)

// mapErr 业务错误 → 状态码。未识别的一律 500。
func mapErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return ez.Unauthorized("invalid credentials")
	case errors.Is(err, domain.ErrAccountLocked):
		return ez.Locked("account locked, contact an administrator")
	case errors.Is(err, domain.ErrEmailTaken):
		return ez.Conflict("email already registered")
	case errors.Is(err, domain.ErrUserNotFound):
		return ez.NotFound("user not found")
	case errors.Is(err, domain.ErrInvalidRole):
		return ez.BadRequest("invalid role")
	case errors.Is(err, domain.ErrInvalidResetToken):
		return ez.BadRequest("invalid or expired token")
	case errors.Is(err, domain.ErrWrongPassword):
		return ez.BadRequest("current password incorrect")
	case errors.Is(err, domain.ErrForbidden):
		return ez.Forbidden("forbidden")
	case errors.Is(err, domain.ErrMailDelivery):
		return ez.Internal("failed to send recovery mail", err)
	default:
		return err
	}
}
