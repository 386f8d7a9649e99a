package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	limiterSweepInterval = 10 * time.Minute
	limiterIdleCutoff    = 30 * time.Minute
)

// limiterTable keeps one token bucket per key and evicts buckets that have
// been idle longer than limiterIdleCutoff. The janitor goroutine stops when
// ctx is done.
type limiterTable[K comparable] struct {
	mu      sync.Mutex
	buckets map[K]*bucket
	rps     float64
	burst   int
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newLimiterTable[K comparable](ctx context.Context, rps float64, burst int) *limiterTable[K] {
	t := &limiterTable[K]{
		buckets: make(map[K]*bucket),
		rps:     rps,
		burst:   burst,
	}

	go func() {
		ticker := time.NewTicker(limiterSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.mu.Lock()
				cutoff := time.Now().Add(-limiterIdleCutoff)
				for k, b := range t.buckets {
					if b.lastAccess.Before(cutoff) {
						delete(t.buckets, k)
					}
				}
				t.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return t
}

func (t *limiterTable[K]) allow(key K) bool {
	t.mu.Lock()
	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(t.rps), t.burst)}
		t.buckets[key] = b
	}
	b.lastAccess = time.Now()
	t.mu.Unlock()

	return b.limiter.Allow()
}

func tooManyRequests(w http.ResponseWriter) {
	http.Error(w, `{"title":"Too Many Requests","status":429,"detail":"rate limit exceeded"}`, http.StatusTooManyRequests)
}

// RateLimitByIP applies per-IP rate limiting for unauthenticated endpoints
// (the auth routes). Keys on r.RemoteAddr, which chi's RealIP middleware
// rewrites from X-Forwarded-For.
func RateLimitByIP(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	table := newLimiterTable[string](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !table.allow(r.RemoteAddr) {
				tooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit applies per-firm rate limiting so one busy firm cannot starve
// the rest. Requests without a firm in context pass through; the vendor
// routes have their own group.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	table := newLimiterTable[uuid.UUID](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, ok := TenantIDFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if !table.allow(tenantID) {
				tooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
