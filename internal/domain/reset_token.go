package domain

import "time"

// ResetToken 临时口令记录，和用户表各自独立，按 (token, email) 匹配。
// 同一邮箱同时最多认一条 unused 且未过期的记录。
type ResetToken struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"-"`
	Email     string     `gorm:"index;size:191;not null" json:"email"`
	Token     string     `gorm:"size:64;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	Used      bool       `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UsedAt    *time.Time `json:"usedAt"`
}

func (ResetToken) TableName() string { return "reset_tokens" }

func (t *ResetToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }

type ResetTokenRepository interface {
	// Replace 删掉该邮箱未使用的旧记录后写入新记录
	Replace(t *ResetToken) error
	// FindUsable 按 (token,email,used=false) 查找，不判断过期
	FindUsable(token, email string) (*ResetToken, error)
	MarkUsed(id uint, at time.Time) error
}
