package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"go-auth-api/internal/domain"
)

type ResetTokenRepo struct{ db *gorm.DB }

func NewResetTokenRepo(db *gorm.DB) *ResetTokenRepo { return &ResetTokenRepo{db: db} }

// Replace 同一事务里先删该邮箱未使用的旧记录再插新记录，
// 保证任意时刻每邮箱只有一条可用 token。
func (r *ResetTokenRepo) Replace(t *domain.ResetToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ? AND used = ?", t.Email, false).
			Delete(&domain.ResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(t).Error
	})
}

func (r *ResetTokenRepo) FindUsable(token, email string) (*domain.ResetToken, error) {
	var t domain.ResetToken
	err := r.db.Where("token = ? AND email = ? AND used = ?", token, email, false).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *ResetTokenRepo) MarkUsed(id uint, at time.Time) error {
	res := r.db.Model(&domain.ResetToken{}).
		Where("id = ? AND used = ?", id, false).
		Updates(map[string]any{"used": true, "used_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 已被并发消费
		return domain.ErrInvalidResetToken
	}
	return nil
}
