package service

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"go-auth-api/internal/core/auth"
	"go-auth-api/internal/domain"
	"go-auth-api/pkg/utils"
)

// AuthService 登录 + 锁定策略。
// 失败计数达到阈值账号停用，之后即使密码正确也拒绝，直到管理员重新激活。
type AuthService struct {
	users       domain.UserRepository
	jwter       *auth.JWTer
	maxAttempts int
	log         *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, maxAttempts int, log *zap.Logger) *AuthService {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &AuthService{users: users, jwter: jwter, maxAttempts: maxAttempts, log: log}
}

func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	email = FoldEmail(email)

	u, err := s.users.FindByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		// 不存在和密码错对外同样口径，避免枚举
		loginFailureTotal.Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	// 停用账号先于密码校验拒绝，不自动解锁
	if !u.IsActive {
		return "", nil, domain.ErrAccountLocked
	}

	if !utils.CheckPassword(password, u.PasswordHash) {
		loginFailureTotal.Inc()
		if err := s.users.BumpLoginAttempts(email, s.maxAttempts); err != nil {
			return "", nil, err
		}
		if u.LoginAttempts+1 >= s.maxAttempts {
			accountLockoutTotal.Inc()
			s.log.Warn("account locked after repeated failures", zap.String("email", email))
		}
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.users.ResetLoginAttempts(u.ID, now); err != nil {
		return "", nil, err
	}
	u.LoginAttempts = 0
	u.LastLogin = &now

	tok, err := s.jwter.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return "", nil, err
	}
	loginSuccessTotal.Inc()
	return tok, u, nil
}

// FoldEmail 邮箱统一小写作为唯一键
func FoldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
