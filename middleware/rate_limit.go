package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/blogapi/utils"
)

const limiterIdleTTL = 5 * time.Minute

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

type ipRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	lastPrune time.Time
	now       func() time.Time
}

func newIPRateLimiter(perMinute int) *ipRateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &ipRateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
		now:      time.Now,
	}
}

// RateLimit applies a per client IP token bucket allowing perMinute requests.
func RateLimit(perMinute int) gin.HandlerFunc {
	l := newIPRateLimiter(perMinute)

	return func(ctx *gin.Context) {
		if !l.allow(ctx.ClientIP()) {
			rateLimited.Inc()
			utils.Failure(ctx, http.StatusTooManyRequests, "Request was throttled.", nil)
			return
		}
		ctx.Next()
	}
}

func (l *ipRateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	// idle clients are swept at most once per TTL
	if now.Sub(l.lastPrune) >= limiterIdleTTL {
		for k, cl := range l.limiters {
			if now.After(cl.expires) {
				delete(l.limiters, k)
			}
		}
		l.lastPrune = now
	}

	cl, ok := l.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = cl
	}
	cl.expires = now.Add(limiterIdleTTL)
	return cl.limiter.AllowN(now, 1)
}
