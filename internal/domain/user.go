package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleModerator = "moderator"
)

// ValidRole 角色枚举校验
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleModerator:
		return true
	}
	return false
}

type User struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Email         string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash  string     `gorm:"size:100;not null" json:"-"`
	Role          string     `gorm:"size:16;not null;default:user" json:"role"`
	IsActive      bool       `gorm:"not null;default:true" json:"isActive"`
	LoginAttempts int        `gorm:"not null;default:0" json:"loginAttempts"`
	LastLogin     *time.Time `json:"lastLogin"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	List(offset, limit int) ([]User, int64, error)
	ListByRole(role string) ([]User, error)
	Search(q string, withDeleted bool, offset, limit int) ([]User, int64, error)
	Update(u *User) error
	// 失败计数原子自增，达到 lockAt 同步置 is_active=false
	BumpLoginAttempts(email string, lockAt int) error
	ResetLoginAttempts(id string, at time.Time) error
	SetActive(id string, active bool) error
	SoftDelete(id string) error
}
