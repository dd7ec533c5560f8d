package repo

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"go-auth-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(u *domain.User) error {
	err := r.db.Create(u).Error
	if err != nil && isDupKey(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *UserRepo) FindByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) FindByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) List(offset, limit int) ([]domain.User, int64, error) {
	var users []domain.User
	tx := r.db.Model(&domain.User{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Search 后台列表：email 模糊搜，可带软删
func (r *UserRepo) Search(q string, withDeleted bool, offset, limit int) ([]domain.User, int64, error) {
	tx := r.db.Model(&domain.User{})
	if withDeleted {
		tx = tx.Unscoped()
	}
	if q != "" {
		tx = tx.Where("email LIKE ?", "%"+q+"%")
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := tx.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) ListByRole(role string) ([]domain.User, error) {
	var users []domain.User
	err := r.db.Where("role = ?", role).Order("created_at desc").Find(&users).Error
	return users, err
}

func (r *UserRepo) Update(u *domain.User) error {
	err := r.db.Save(u).Error
	if err != nil && isDupKey(err) {
		return domain.ErrEmailTaken
	}
	return err
}

// BumpLoginAttempts 单条 UPDATE 完成自增 + 条件锁定，
// 避免整读整写下并发丢更新（两个失败都读到 4、都写回 5）。
func (r *UserRepo) BumpLoginAttempts(email string, lockAt int) error {
	return r.db.Model(&domain.User{}).
		Where("email = ?", email).
		Updates(map[string]any{
			"login_attempts": gorm.Expr("login_attempts + 1"),
			"is_active":      gorm.Expr("CASE WHEN login_attempts + 1 >= ? THEN ? ELSE is_active END", lockAt, false),
		}).Error
}

func (r *UserRepo) ResetLoginAttempts(id string, at time.Time) error {
	return r.db.Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"login_attempts": 0, "last_login": at}).Error
}

func (r *UserRepo) SetActive(id string, active bool) error {
	cols := map[string]any{"is_active": active}
	if active {
		cols["login_attempts"] = 0 // 解锁顺带清零计数
	}
	res := r.db.Model(&domain.User{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) SoftDelete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "unique")
}
