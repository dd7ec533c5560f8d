package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "go-auth-api/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(http.StatusTooManyRequests, "too many requests"))
	}
}

const (
	bucketIdleTTL   = 10 * time.Minute // 闲置超过这个时长的桶可回收
	bucketSweepSize = 4096             // map 到这个量级才触发清理
)

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// ipBuckets 每 IP 一个令牌桶。公网登录口 IP 无界，
// 插入新桶前先把闲置的清掉，map 不会一直涨。
type ipBuckets struct {
	mu    sync.Mutex
	m     map[string]*ipBucket
	rps   rate.Limit
	burst int
}

func newIPBuckets(rps rate.Limit, burst int) *ipBuckets {
	return &ipBuckets{m: make(map[string]*ipBucket), rps: rps, burst: burst}
}

func (b *ipBuckets) get(ip string, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.m[ip]
	if !ok {
		if len(b.m) >= bucketSweepSize {
			b.sweepLocked(now)
		}
		e = &ipBucket{lim: rate.NewLimiter(b.rps, b.burst)}
		b.m[ip] = e
	}
	e.seen = now
	return e.lim
}

// sweepLocked 调用方持锁
func (b *ipBuckets) sweepLocked(now time.Time) {
	for ip, e := range b.m {
		if now.Sub(e.seen) > bucketIdleTTL {
			delete(b.m, ip)
		}
	}
}

// RateLimitPerIP 每 IP 限速，登录/找回口令这类端点用更紧的桶
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	buckets := newIPBuckets(rps, burst)
	return func(c *gin.Context) {
		if buckets.get(c.ClientIP(), time.Now()).Allow() {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(http.StatusTooManyRequests, "too many requests"))
	}
}
