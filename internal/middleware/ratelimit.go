package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medprep/medprep-backend/internal/response"
)

// RateLimiter is a per-IP token bucket. Buckets refill in whole intervals
// and idle entries are reaped in the background.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity int
	interval time.Duration
	reaper   *time.Ticker
	done     chan struct{}
}

type bucket struct {
	tokens   int
	refilled time.Time
}

// NewRateLimiter creates a limiter allowing capacity requests per interval.
func NewRateLimiter(capacity int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		capacity: capacity,
		interval: interval,
		reaper:   time.NewTicker(time.Minute),
		done:     make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-rl.reaper.C:
				rl.reap()
			case <-rl.done:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background reaper. The limiter keeps serving requests
// afterwards, only idle bucket cleanup stops.
func (rl *RateLimiter) Stop() {
	rl.reaper.Stop()
	close(rl.done)
}

// Middleware returns a Gin middleware that rate-limits requests by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok {
		b = &bucket{tokens: rl.capacity, refilled: time.Now()}
		rl.buckets[ip] = b
	}

	if intervals := int(time.Since(b.refilled) / rl.interval); intervals > 0 {
		b.tokens += intervals * rl.capacity
		if b.tokens > rl.capacity {
			b.tokens = rl.capacity
		}
		b.refilled = time.Now()
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) reap() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, b := range rl.buckets {
		if time.Since(b.refilled) > 3*time.Minute {
			delete(rl.buckets, ip)
		}
	}
}
