package main

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiters holds one token bucket per caller. Search is the only route
// expensive enough to warrant this; keys are the authenticated username with
// the client IP as fallback.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (cl *clientLimiters) get(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	l, ok := cl.limiters[key]
	if !ok {
		l = rate.NewLimiter(cl.rps, cl.burst)
		cl.limiters[key] = l
	}
	return l
}

func rateLimitMiddleware(cfg *Config) gin.HandlerFunc {
	cl := newClientLimiters(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	return func(c *gin.Context) {
		key := c.ClientIP()
		if u, ok := c.Get("username"); ok {
			key = u.(string)
		}
		if !cl.get(key).Allow() {
			respondError(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}
