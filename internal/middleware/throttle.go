package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"racefinder/internal/pkg/response"
)

const maxThrottleEntries = 10000

// ipLimiters hands out one token bucket per client IP.
type ipLimiters struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newIPLimiters(rps float64, burst int) *ipLimiters {
	return &ipLimiters{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[ip]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok = l.limiters[ip]; ok {
		return limiter
	}
	if len(l.limiters) >= maxThrottleEntries {
		l.limiters = make(map[string]*rate.Limiter)
	}
	limiter = rate.NewLimiter(l.rate, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

// SubmissionThrottle limits unauthenticated writes per client IP.
func SubmissionThrottle(rps float64, burst int) gin.HandlerFunc {
	limiters := newIPLimiters(rps, burst)

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			response.Abort(c, http.StatusTooManyRequests, "rate_limited", "Too many submissions, slow down")
			return
		}
		c.Next()
	}
}
