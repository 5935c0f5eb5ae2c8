package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// loginLimiter 按来源 IP 做滑动窗口限流，防止撞库
type loginLimiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	attempts map[string][]time.Time
}

func newLoginLimiter(maxAttempts int, window time.Duration) *loginLimiter {
	l := &loginLimiter{
		max:      maxAttempts,
		window:   window,
		attempts: make(map[string][]time.Time),
	}
	go l.sweep()
	return l
}

// allow 记录一次尝试并判断是否放行
func (l *loginLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(l.attempts[ip], now)
	if len(recent) >= l.max {
		l.attempts[ip] = recent
		return false
	}
	l.attempts[ip] = append(recent, now)
	return true
}

// prune 丢弃窗口外的尝试记录
func (l *loginLimiter) prune(ts []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// sweep 定期清理不再活跃的 IP，避免 map 无限增长
func (l *loginLimiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for now := range ticker.C {
		l.mu.Lock()
		for ip, ts := range l.attempts {
			if kept := l.prune(ts, now); len(kept) == 0 {
				delete(l.attempts, ip)
			} else {
				l.attempts[ip] = kept
			}
		}
		l.mu.Unlock()
	}
}

// LoginRateLimit 登录接口限流中间件
// 每 IP 每窗口最多 maxAttempts 次尝试，超过则返回 429。
// 参数由配置的 login_limit 段驱动。
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	limiter := newLoginLimiter(maxAttempts, window)

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "登录尝试过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
