package middleware

import (
	"net/http"
	"sync"
	"time"

	"tourly/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ipLimiters keeps one token bucket per client address. Entries are never
// evicted; the key space is bounded by the set of distinct callers.
type ipLimiters struct {
	buckets map[string]*rate.Limiter
	mu      sync.Mutex
}

var perClient = &ipLimiters{
	buckets: make(map[string]*rate.Limiter),
}

// forIP returns the limiter for the given address, creating one sized from
// MAX_REQUESTS_PER_MIN on first sight.
func (l *ipLimiters) forIP(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.buckets[ip]; ok {
		return lim
	}
	perMin := config.AppConfig.MaxRequestsPerMin
	if perMin <= 0 {
		perMin = 100
	}
	lim := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin)
	l.buckets[ip] = lim
	return lim
}

// RateLimitMiddleware rejects callers exceeding the configured per-IP rate
// with 429.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !perClient.forIP(ip).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
