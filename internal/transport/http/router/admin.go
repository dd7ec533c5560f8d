package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-auth-api/internal/core/auth"
	"go-auth-api/internal/core/server"
	"go-auth-api/internal/domain"
	mdw "go-auth-api/internal/transport/http/middleware"
)

// NewAdminEngine 后台端引擎，/admin/v1 整组要求 admin 角色
func NewAdminEngine(l *zap.Logger, jwter *auth.JWTer) *gin.Engine {
	r := server.NewRouter(l)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))

	MountAllAdmin(admin)

	return r
}
