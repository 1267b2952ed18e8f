package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"codereview-frontend/internal/shared/server/respond"
	"codereview-frontend/internal/shared/telemetry"
)

const maxTrackedClients = 10000

type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	now      func() time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		now:      now,
	}
}

// RateLimit rejects requests from a client that exceed rule with a 429 JSON
// error. A nil limiter gets a fresh one.
func RateLimit(rule RateLimitRule, limiter *RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.ClientIP())
		allowed, retryAfter := limiter.Allow(key, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterSeconds := int(math.Ceil(retryAfter.Seconds()))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		telemetry.Warn("http.rate_limited", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"client_ip":   key,
			"path":        c.Request.URL.Path,
			"retry_after": retryAfterSeconds,
		})
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, respond.ErrorResponse{
			Error: respond.ErrorBody{
				Code:    "rate_limited",
				Message: "Too many status requests",
				Details: gin.H{"retryAfterMs": retryAfter.Milliseconds()},
			},
		})
	}
}

// Allow takes one token for key. When refused it reports how long until the
// next token is available.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedClients {
			l.evictIdle(now, rule)
		}
		lim = rate.NewLimiter(rate.Limit(rule.Rate), rule.Burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, delay
}

// evictIdle drops clients whose bucket has refilled, since a fresh limiter
// behaves the same. Callers hold l.mu.
func (l *RateLimiter) evictIdle(now time.Time, rule RateLimitRule) {
	for key, lim := range l.limiters {
		if lim.TokensAt(now) >= float64(rule.Burst) {
			delete(l.limiters, key)
		}
	}
}
