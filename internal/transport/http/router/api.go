package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-auth-api/internal/core/auth"
	mdw "go-auth-api/internal/transport/http/middleware"
	resp "go-auth-api/internal/transport/http/response"
)

// NewAPIEngine 用户端引擎。/api 下公共路由走每 IP 限速
// （这一侧全是登录/注册/找回口令），鉴权路由走 JWT 中间件。
func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, dev bool) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(l, dev),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 服务首页（沿用对外契约）
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, resp.OK(gin.H{
			"status": "active",
			"endpoints": gin.H{
				"auth":     "/api/auth",
				"users":    "/api/users",
				"password": "/api/password",
			},
		}))
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound,
			"route "+c.Request.URL.Path+" does not exist"))
	})

	api := r.Group("/api")
	public := api.Group("", mdw.RateLimitPerIP(5, 10))
	authed := api.Group("", mdw.AuthJWT(jwter, ""))

	MountAllAPI(public, authed)

	return r
}
