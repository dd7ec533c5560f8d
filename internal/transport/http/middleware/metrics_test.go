package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsUsesAuthNamespace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	// 指标名带 auth_ 前缀，和业务计数器一套口径
	assert.GreaterOrEqual(t, testutil.CollectAndCount(httpReqTotal, "auth_http_requests_total"), 1)
	assert.InDelta(t, 1, testutil.ToFloat64(
		httpReqTotal.WithLabelValues("/ping", http.MethodGet, "200")), 0.001)
}

func TestMetricsCollapsesUnmatchedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())

	// 未注册路由不按原始 path 记，统一归并
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/other/456", nil))

	assert.InDelta(t, 2, testutil.ToFloat64(
		httpReqTotal.WithLabelValues("unmatched", http.MethodGet, "404")), 0.001)
}
