package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/voluntr/volunteer-api/pkg/httputil"
)

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
	// ClientTTL controls how long an idle client's bucket survives
	// before it is swept. Zero means the 3 minute default.
	ClientTTL time.Duration
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP so one noisy caller
// cannot exhaust the budget for everyone else.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	lastSweep time.Time
	config    RateLimiterConfig
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.ClientTTL <= 0 {
		config.ClientTTL = 3 * time.Minute
	}
	return &RateLimiter{
		clients:   make(map[string]*clientBucket),
		lastSweep: time.Now(),
		config:    config,
	}
}

func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) > rl.config.ClientTTL {
		for ip, b := range rl.clients {
			if now.Sub(b.lastSeen) > rl.config.ClientTTL {
				delete(rl.clients, ip)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.clients[clientIP]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.config.Rate, rl.config.Burst)}
		rl.clients[clientIP] = b
	}
	b.lastSeen = now

	return b.limiter.Allow()
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.Response{
				Success: false,
				Error: &httputil.Error{
					Code:    http.StatusTooManyRequests,
					Message: "too many requests",
				},
			})
			return
		}
		c.Next()
	}
}
