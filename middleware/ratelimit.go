package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter limits requests per client IP over a fixed one-minute window
type RateLimiter struct {
	// Maximum requests per minute per IP
	ratePerMinute int
	// Map to track request counts and window starts
	clients map[string]*clientLimit
	mu      sync.Mutex
	now     func() time.Time
}

type clientLimit struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a new rate limiter middleware. It returns nil for a
// non-positive rate, which callers treat as unlimited.
func NewRateLimiter(ratePerMinute int) *RateLimiter {
	if ratePerMinute <= 0 {
		return nil
	}
	return &RateLimiter{
		ratePerMinute: ratePerMinute,
		clients:       make(map[string]*clientLimit),
		now:           time.Now,
	}
}

// Limit creates a middleware function for rate limiting
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.String(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	// Drop clients idle for more than two windows
	for key, client := range rl.clients {
		if now.Sub(client.windowStart) > 2*time.Minute {
			delete(rl.clients, key)
		}
	}

	client, exists := rl.clients[ip]
	if !exists || now.Sub(client.windowStart) > time.Minute {
		client = &clientLimit{windowStart: now}
		rl.clients[ip] = client
	}

	client.count++
	return client.count <= rl.ratePerMinute
}
