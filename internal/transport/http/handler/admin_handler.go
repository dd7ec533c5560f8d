package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-auth-api/internal/service"
	"go-auth-api/internal/transport/http/ez"
)

// AdminHandler 后台端（/admin/v1），分组整体要求 admin 角色
type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler { return &AdminHandler{users: users} }

func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin)

	// --- GET /admin/v1/users 列表 + 模糊搜 ---
	type listQ struct {
		Offset      int    `form:"offset,default=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`            // 按 email 模糊搜
		WithDeleted bool   `form:"with_deleted"` // 是否包含软删
	}
	type row struct {
		ID            string     `json:"id"`
		Email         string     `json:"email"`
		Role          string     `json:"role"`
		IsActive      bool       `json:"isActive"`
		LoginAttempts int        `json:"loginAttempts"`
		LastLogin     *time.Time `json:"lastLogin"`
		CreatedAt     time.Time  `json:"createdAt"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}
	ez.RegisterAction[listQ, listOut](e, ez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			us, total, err := h.users.Search(in.Q, in.WithDeleted, in.Offset, in.Limit)
			if err != nil {
				return listOut{}, ez.Internal("list users failed", err)
			}
			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, row{
					ID: u.ID, Email: u.Email, Role: u.Role,
					IsActive: u.IsActive, LoginAttempts: u.LoginAttempts,
					LastLogin: u.LastLogin, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	// --- POST /admin/v1/users/:id/deactivate 封禁 ---
	ez.RegisterAction[struct{}, gin.H](e, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/deactivate",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, ez.BadRequest("missing id")
			}
			if err := h.users.SetActive(c, id, false); err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"id": id, "isActive": false}, nil
		},
	})

	// --- POST /admin/v1/users/:id/activate 解锁：恢复激活并清零失败计数 ---
	ez.RegisterAction[struct{}, gin.H](e, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/activate",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, ez.BadRequest("missing id")
			}
			if err := h.users.SetActive(c, id, true); err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"id": id, "isActive": true}, nil
		},
	})

	// --- DELETE /admin/v1/users/:id 软删 ---
	ez.RegisterAction[struct{}, gin.H](e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, ez.BadRequest("missing id")
			}
			if err := h.users.Delete(c, id); err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"id": id}, nil
		},
	})
}
