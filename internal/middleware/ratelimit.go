package middleware

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	RequestsPerSecond float64       // Rate limit: requests per second
	BurstSize         int           // Maximum burst size
	CleanupInterval   time.Duration // How often to cleanup old limiters
}

// DefaultRateLimiterConfig provides sensible defaults for rate limiting
var DefaultRateLimiterConfig = RateLimiterConfig{
	RequestsPerSecond: 10.0,
	BurstSize:         20,
	CleanupInterval:   5 * time.Minute,
}

// clientLimiter tracks a rate limiter and last seen time for cleanup
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter manages per-client rate limiters
type RateLimiter struct {
	limiters    map[string]*clientLimiter
	mu          sync.Mutex
	config      RateLimiterConfig
	stopCleanup chan struct{}
}

// NewRateLimiter creates a new rate limiter with automatic cleanup
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		limiters:    make(map[string]*clientLimiter),
		config:      config,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow checks if a request from the given client ID should be allowed
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[clientID]
	if !exists {
		limiter = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize),
		}
		rl.limiters[clientID] = limiter
	}
	limiter.lastSeen = time.Now()

	return limiter.limiter.Allow()
}

// cleanupLoop periodically removes inactive limiters to prevent memory growth
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanup removes limiters that haven't been used recently
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.config.CleanupInterval)
	removed := 0

	for clientID, limiter := range rl.limiters {
		if limiter.lastSeen.Before(cutoff) {
			delete(rl.limiters, clientID)
			removed++
		}
	}

	if removed > 0 {
		log.Printf("[RATELIMIT] Cleaned up %d inactive rate limiters", removed)
	}
}

// Stop stops the cleanup goroutine (call when shutting down)
func (rl *RateLimiter) Stop() {
	close(rl.stopCleanup)
}

// GinMiddleware enforces the limit per remote address on HTTP routes.
func (rl *RateLimiter) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.ClientIP()
		if !rl.Allow(clientID) {
			log.Printf("[RATELIMIT] Rate limit exceeded for client: %s", clientID)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please slow down."})
			return
		}
		c.Next()
	}
}

// SocketActionLimiter rate limits game actions per connection. More
// restrictive than HTTP to stop rapid action spam on a table.
type SocketActionLimiter struct {
	*RateLimiter
}

func NewSocketActionLimiter() *SocketActionLimiter {
	config := RateLimiterConfig{
		RequestsPerSecond: 5.0,
		BurstSize:         10,
		CleanupInterval:   5 * time.Minute,
	}
	return &SocketActionLimiter{RateLimiter: NewRateLimiter(config)}
}

// AllowAction checks if a game action from a connection should be allowed.
func (sl *SocketActionLimiter) AllowAction(connID string) bool {
	allowed := sl.Allow(connID)
	if !allowed {
		log.Printf("[RATELIMIT] Game action rate limit exceeded for connection: %s", connID)
	}
	return allowed
}
