package service

import (
	"context"
	"time"

	"go-auth-api/internal/core/cache"
	"go-auth-api/internal/domain"
	"go-auth-api/pkg/utils"
)

const profileCacheTTL = 30 * time.Second

type UserService struct {
	users      domain.UserRepository
	cache      *cache.Cache // 可空；未配 redis 时直连库
	bcryptCost int
}

func NewUserService(users domain.UserRepository, c *cache.Cache, bcryptCost int) *UserService {
	return &UserService{users: users, cache: c, bcryptCost: bcryptCost}
}

func (s *UserService) Register(email, password, role string) (*domain.User, error) {
	email = FoldEmail(email)
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Profile(ctx context.Context, id string) (*domain.User, error) {
	if s.cache == nil {
		return s.findExisting(id)
	}
	u, err := cache.GetOrLoadJSON[domain.User](s.cache, ctx, profileKey(id), profileCacheTTL,
		func(context.Context) (*domain.User, error) { return s.findExisting(id) })
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type ProfileUpdate struct {
	Email    *string
	Password *string
	Role     *string
	IsActive *bool
}

// Update 只有 admin 能动 role / isActive，普通用户传了也直接忽略（沿用原有行为）
func (s *UserService) Update(ctx context.Context, id string, in ProfileUpdate, isAdmin bool) (*domain.User, error) {
	u, err := s.findExisting(id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil && *in.Email != "" {
		u.Email = FoldEmail(*in.Email)
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := utils.HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if isAdmin {
		if in.Role != nil {
			if !domain.ValidRole(*in.Role) {
				return nil, domain.ErrInvalidRole
			}
			u.Role = *in.Role
		}
		if in.IsActive != nil {
			u.IsActive = *in.IsActive
			if *in.IsActive {
				u.LoginAttempts = 0 // 管理员重新激活同时清零失败计数
			}
		}
	}
	if err := s.users.Update(u); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.SoftDelete(id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *UserService) List(offset, limit int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.List(offset, limit)
}

func (s *UserService) Search(q string, withDeleted bool, offset, limit int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.Search(q, withDeleted, offset, limit)
}

func (s *UserService) ListByRole(role string) ([]domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	return s.users.ListByRole(role)
}

func (s *UserService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.users.SetActive(id, active); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *UserService) findExisting(id string) (*domain.User, error) {
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, profileKey(id))
	}
}

func profileKey(id string) string { return "user:profile:" + id }
