package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storerating-backend/internal/errors"
	"golang.org/x/time/rate"
)

// upper bound on tracked clients; the least recently seen are evicted first
const maxTrackedClients = 10000

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu         sync.Mutex
	clients    map[string]*clientLimiter
	rate       rate.Limit
	burst      int
	idleTTL    time.Duration
	maxClients int
	lastSweep  time.Time
	nowFunc    func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// client with the given burst. rps <= 0 disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		clients:    make(map[string]*clientLimiter),
		rate:       rate.Limit(rps),
		burst:      burst,
		idleTTL:    10 * time.Minute,
		maxClients: maxTrackedClients,
		nowFunc:    time.Now,
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.nowFunc()
	rl.sweep(now)

	cl, ok := rl.clients[key]
	if !ok {
		rl.evictOldest()
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// sweep drops idle clients at most once per idleTTL.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.idleTTL {
		return
	}
	rl.lastSweep = now
	for k, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > rl.idleTTL {
			delete(rl.clients, k)
		}
	}
}

// evictOldest makes room for one more client when the table is full.
func (rl *RateLimiter) evictOldest() {
	for len(rl.clients) >= rl.maxClients {
		var oldestKey string
		var oldest time.Time
		for k, cl := range rl.clients {
			if oldestKey == "" || cl.lastSeen.Before(oldest) {
				oldestKey, oldest = k, cl.lastSeen
			}
		}
		delete(rl.clients, oldestKey)
	}
}

// Handler returns the rate limiting middleware handler
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rate <= 0 {
			c.Next()
			return
		}

		key := c.ClientIP()
		if !rl.allow(key) {
			GetLoggerFromContext(c).Warn("Rate limit exceeded", map[string]interface{}{
				"ip":   key,
				"path": c.Request.URL.Path,
			})
			c.Header("Retry-After", "1")
			errors.RespondWithError(c, http.StatusTooManyRequests, errors.RateLimitExceeded, "Too many requests, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
