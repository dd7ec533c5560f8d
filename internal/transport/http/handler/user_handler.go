package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-auth-api/internal/domain"
	"go-auth-api/internal/service"
	"go-auth-api/internal/transport/http/ez"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler { return &UserHandler{users: users} }

func (h *UserHandler) Priority() int { return 20 }

func (h *UserHandler) MountAPI(public, authed *gin.RouterGroup) {
	ezPub := ez.New(public.Group("/users"))
	ezAuth := ez.New(authed.Group("/users"))

	// --- POST /api/users/register 公共 ---
	type registerIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,strongpw"`
		Role     string `json:"role"     binding:"omitempty"`
	}
	ez.RegisterAction[registerIn, gin.H](ezPub, ez.Action[registerIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (gin.H, error) {
			u, err := h.users.Register(in.Email, in.Password, in.Role)
			if err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"user": u}, nil
		},
	})

	// --- GET /api/users/profile ---
	ez.RegisterAction[struct{}, gin.H](ezAuth, ez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/profile",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			u, err := h.users.Profile(c, c.GetString("userId"))
			if err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"user": u}, nil
		},
	})

	// --- PUT /api/users/profile ---
	// role / isActive 只有 admin 的改动会生效
	type updateIn struct {
		Email    *string `json:"email"    binding:"omitempty,email"`
		Password *string `json:"password" binding:"omitempty,strongpw"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"isActive"`
	}
	ez.RegisterAction[updateIn, gin.H](ezAuth, ez.Action[updateIn, gin.H]{
		Method: http.MethodPut,
		Path:   "/profile",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *updateIn) (gin.H, error) {
			isAdmin := c.GetString("role") == domain.RoleAdmin
			u, err := h.users.Update(c, c.GetString("userId"), service.ProfileUpdate{
				Email:    in.Email,
				Password: in.Password,
				Role:     in.Role,
				IsActive: in.IsActive,
			}, isAdmin)
			if err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"user": u}, nil
		},
	})

	// --- DELETE /api/users/profile 自删 ---
	ez.RegisterAction[struct{}, gin.H](ezAuth, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/profile",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			uid := c.GetString("userId")
			if err := h.users.Delete(c, uid); err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"id": uid}, nil
		},
	})

	// --- DELETE /api/users/:id 删别人要 admin ---
	ez.RegisterAction[struct{}, gin.H](ezAuth, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id != c.GetString("userId") && c.GetString("role") != domain.RoleAdmin {
				return nil, ez.Forbidden("admin role required")
			}
			if err := h.users.Delete(c, id); err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- GET /api/users 列表，仅 admin ---
	type listQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	ez.RegisterAction[listQ, gin.H](ezAuth, ez.Action[listQ, gin.H]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *listQ) (gin.H, error) {
			us, total, err := h.users.List(in.Offset, in.Limit)
			if err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"users": us, "count": total}, nil
		},
	})

	// --- GET /api/users/role/:role 按角色，仅 admin ---
	ez.RegisterAction[struct{}, gin.H](ezAuth, ez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/role/:role",
		Binder: ez.BindNone,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			role := c.Param("role")
			us, err := h.users.ListByRole(role)
			if err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"users": us, "count": len(us), "role": role}, nil
		},
	})
}
