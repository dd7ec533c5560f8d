package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "go-auth-api/internal/transport/http/response"
)

// Recovery 顶层兜底：panic 统一落为 500，开发环境才回传细节
func Recovery(l *zap.Logger, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				body := resp.Error(resp.CodeServerError, "internal error")
				if dev {
					body = resp.New(resp.CodeServerError, "internal error", gin.H{"panic": rec})
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}
