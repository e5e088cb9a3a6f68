package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/forgo/quest/internal/model"
)

// RateLimiter is a per-key token bucket. Buckets refill continuously at
// Rate per Window up to Rate+Burst tokens.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int
	window  time.Duration
	burst   int
	now     func() time.Time
	swept   time.Time
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	Rate   int           // Requests per window (default 60)
	Window time.Duration // Time window (default 1 minute)
	Burst  int           // Extra requests allowed in a burst
	Clock  func() time.Time
}

// NewRateLimiter creates a new rate limiter. Idle buckets are swept
// lazily from Allow, so no goroutine needs stopping.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 60
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Burst < 0 {
		cfg.Burst = 0
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    cfg.Rate,
		window:  cfg.Window,
		burst:   cfg.Burst,
		now:     cfg.Clock,
	}
}

func (rl *RateLimiter) capacity() float64 {
	return float64(rl.rate + rl.burst)
}

// Allow takes one token for key. It returns whether the request may
// proceed, the whole tokens left, and how long until the next token.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.capacity(), lastSeen: now}
		rl.buckets[key] = b
	} else {
		perToken := rl.window / time.Duration(rl.rate)
		b.tokens = min(rl.capacity(), b.tokens+float64(now.Sub(b.lastSeen))/float64(perToken))
		b.lastSeen = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true, int(b.tokens), 0
	}
	perToken := rl.window / time.Duration(rl.rate)
	return false, 0, time.Duration((1 - b.tokens) * float64(perToken))
}

// sweep drops buckets idle for two windows, at most once per window
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.swept) < rl.window {
		return
	}
	rl.swept = now
	cutoff := now.Add(-2 * rl.window)
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// RateLimit returns a middleware that limits requests per user, falling
// back to the remote address for anonymous requests
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetUserID(r.Context())
			if key == "" {
				key = r.RemoteAddr
			}

			allowed, remaining, retryAfter := limiter.Allow(key)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.rate))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				seconds := max(int(retryAfter.Round(time.Second)/time.Second), 1)
				model.NewRateLimitError(seconds).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
