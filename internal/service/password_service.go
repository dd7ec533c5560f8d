package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-auth-api/internal/domain"
	"go-auth-api/internal/mail"
	"go-auth-api/internal/repo"
	"go-auth-api/pkg/utils"
)

// PasswordService 临时口令生命周期：申请 → 待用 → 消费一次 / 过期作废。
// 消费时密码写入和 token 置 used 在同一个事务里。
type PasswordService struct {
	db         *gorm.DB
	mailer     mail.Mailer
	bcryptCost int
	resetTTL   time.Duration
	log        *zap.Logger
}

func NewPasswordService(db *gorm.DB, mailer mail.Mailer, bcryptCost int, resetTTL time.Duration, log *zap.Logger) *PasswordService {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &PasswordService{db: db, mailer: mailer, bcryptCost: bcryptCost, resetTTL: resetTTL, log: log}
}

// Forgot 邮箱不存在、账号已停用都按成功返回，对外不可区分。
// 只有真正发信失败才报错（500 级）。
func (s *PasswordService) Forgot(ctx context.Context, email string) error {
	email = FoldEmail(email)

	u, err := repo.NewUserRepo(s.db).FindByEmail(email)
	if err != nil {
		return err
	}
	if u == nil || !u.IsActive {
		return nil
	}

	secret, err := utils.NewTempSecret()
	if err != nil {
		return err
	}
	t := &domain.ResetToken{
		Email:     email,
		Token:     secret,
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := repo.NewResetTokenRepo(s.db).Replace(t); err != nil {
		return err
	}
	// 申请计数在落库后就记，投递失败也算一次申请
	resetRequestTotal.Inc()

	if err := s.mailer.SendPasswordReset(ctx, email, secret, t.ExpiresAt); err != nil {
		s.log.Error("reset mail delivery failed", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}
	return nil
}

// Reset 过期、已用、根本不存在的 token 一律 ErrInvalidResetToken，不给区分信号
func (s *PasswordService) Reset(token, email, newPassword string) error {
	email = FoldEmail(email)

	t, err := repo.NewResetTokenRepo(s.db).FindUsable(token, email)
	if err != nil {
		return err
	}
	if t == nil || t.Expired(time.Now()) {
		return domain.ErrInvalidResetToken
	}

	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		u, err := repo.NewUserRepo(tx).FindByEmail(email)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		if err := tx.Model(&domain.User{}).Where("id = ?", u.ID).
			Update("password_hash", hash).Error; err != nil {
			return err
		}
		return repo.NewResetTokenRepo(tx).MarkUsed(t.ID, time.Now())
	})
	if err != nil {
		return err
	}
	resetConsumeTotal.Inc()
	return nil
}

// Validate 只读校验，不消费
func (s *PasswordService) Validate(token, email string) (bool, *time.Time, error) {
	email = FoldEmail(email)

	t, err := repo.NewResetTokenRepo(s.db).FindUsable(token, email)
	if err != nil {
		return false, nil, err
	}
	if t == nil || t.Expired(time.Now()) {
		return false, nil, nil
	}
	return true, &t.ExpiresAt, nil
}

// Change 已登录用户改密码，先验旧密码
func (s *PasswordService) Change(id, currentPassword, newPassword string) error {
	ur := repo.NewUserRepo(s.db)
	u, err := ur.FindByID(id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	if !utils.CheckPassword(currentPassword, u.PasswordHash) {
		return domain.ErrWrongPassword
	}
	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.db.Model(&domain.User{}).Where("id = ?", u.ID).
		Update("password_hash", hash).Error
}
