package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-auth-api/internal/service"
	"go-auth-api/internal/transport/http/ez"
)

// 邮箱存不存在、账号停没停用，对外都是同一句话
const genericResetMsg = "If the email exists in our system, you will receive a message with a temporary password"

type PasswordHandler struct {
	passwords *service.PasswordService
}

func NewPasswordHandler(p *service.PasswordService) *PasswordHandler {
	return &PasswordHandler{passwords: p}
}

func (h *PasswordHandler) Priority() int { return 30 }

func (h *PasswordHandler) MountAPI(public, authed *gin.RouterGroup) {
	ezPub := ez.New(public.Group("/password"))
	ezAuth := ez.New(authed.Group("/password"))

	// --- POST /api/password/forgot-password ---
	type forgotIn struct {
		Email string `json:"email" binding:"required,email"`
	}
	ez.RegisterAction[forgotIn, gin.H](ezPub, ez.Action[forgotIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/forgot-password",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *forgotIn) (gin.H, error) {
			if err := h.passwords.Forgot(c, in.Email); err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"message": genericResetMsg}, nil
		},
	})

	// --- POST /api/password/reset-password ---
	type resetIn struct {
		Token       string `json:"token"       binding:"required"`
		Email       string `json:"email"       binding:"required,email"`
		NewPassword string `json:"newPassword" binding:"required,strongpw"`
	}
	ez.RegisterAction[resetIn, gin.H](ezPub, ez.Action[resetIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/reset-password",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *resetIn) (gin.H, error) {
			if err := h.passwords.Reset(in.Token, in.Email, in.NewPassword); err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"message": "password reset"}, nil
		},
	})

	// --- POST /api/password/validate-token ---
	type validateIn struct {
		Token string `json:"token" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}
	type validateOut struct {
		Valid     bool       `json:"valid"`
		ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	}
	ez.RegisterAction[validateIn, validateOut](ezPub, ez.Action[validateIn, validateOut]{
		Method: http.MethodPost,
		Path:   "/validate-token",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *validateIn) (validateOut, error) {
			valid, exp, err := h.passwords.Validate(in.Token, in.Email)
			if err != nil {
				return validateOut{}, mapErr(err)
			}
			return validateOut{Valid: valid, ExpiresAt: exp}, nil
		},
	})

	// --- POST /api/password/change-password 需登录 ---
	type changeIn struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword"     binding:"required,strongpw,nefield=CurrentPassword"`
	}
	ez.RegisterAction[changeIn, gin.H](ezAuth, ez.Action[changeIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/change-password",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *changeIn) (gin.H, error) {
			if err := h.passwords.Change(c.GetString("userId"), in.CurrentPassword, in.NewPassword); err != nil {
				return nil, mapErr(err)
			}
			return gin.H{"message": "password changed"}, nil
		},
	})
}
