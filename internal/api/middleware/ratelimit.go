package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/futig/partner-backend/internal/metrics"
	"github.com/futig/partner-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	rateLimitMessage  = "请求过于频繁，请稍后再试"
	inactiveThreshold = time.Hour
	cleanupInterval   = 10 * time.Minute
)

// bucket tracks rate limit state for a single client address
type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// RateLimiter implements token bucket rate limiting per client address.
// Buckets idle for an hour are evicted by the cache janitor.
type RateLimiter struct {
	buckets    *cache.Cache
	mu         sync.Mutex
	maxTokens  float64 // Maximum tokens in bucket
	refillRate float64 // Tokens added per second
	now        func() time.Time
}

// NewRateLimiter allows requestsPerMinute requests per client, bursting up to the same number
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		buckets:    cache.New(inactiveThreshold, cleanupInterval),
		maxTokens:  float64(requestsPerMinute),
		refillRate: float64(requestsPerMinute) / 60.0,
		now:        time.Now,
	}
}

// Handler rejects requests over the limit with 429 and a Retry-After hint
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientAddr(r)

		allowed, retryAfter := rl.Allow(client)
		if !allowed {
			ctxzap.Warn(r.Context(), "rate limit exceeded", zap.String("client", client))
			metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeRateLimited).Inc()

			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			response.Error(w, http.StatusTooManyRequests, rateLimitMessage)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Allow takes a token for client. When none is left it reports how long until one is.
func (rl *RateLimiter) Allow(client string) (bool, time.Duration) {
	b := rl.bucketFor(client)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := rl.now()

	// Refill tokens based on elapsed time
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = math.Min(rl.maxTokens, b.tokens+elapsed*rl.refillRate)
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true, 0
	}

	missing := 1.0 - b.tokens
	return false, time.Duration(missing / rl.refillRate * float64(time.Second))
}

func (rl *RateLimiter) bucketFor(client string) *bucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.buckets.Get(client); ok {
		b := v.(*bucket)
		// Touch to slide the expiration.
		rl.buckets.SetDefault(client, b)
		return b
	}

	b := &bucket{tokens: rl.maxTokens, lastRefill: rl.now()}
	rl.buckets.SetDefault(client, b)
	return b
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
