package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-auth-api/internal/service"
	"go-auth-api/internal/transport/http/ez"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler { return &AuthHandler{auth: auth} }

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountAPI(public, _ *gin.RouterGroup) {
	e := ez.New(public.Group("/auth"))

	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		Token string `json:"token"`
	}
	ez.RegisterAction[loginIn, loginOut](e, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			tok, _, err := h.auth.Login(in.Email, in.Password)
			if err != nil {
				return loginOut{}, mapErr(err)
			}
			return loginOut{Token: tok}, nil
		},
	})
}
