package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateEntry tracks one caller's limiter and last activity.
type rateEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-caller token bucket. Callers are keyed by the
// authenticated wallet address when present, falling back to the remote
// IP for public endpoints. Idle entries are dropped after idleTTL.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu    sync.Mutex
	byKey map[string]*rateEntry
}

// NewRateLimiter builds a RateLimiter allowing rps requests per second
// with the given burst per caller.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		byKey:   make(map[string]*rateEntry),
	}
}

// Handler wraps next with the rate limit, answering 429 when a caller
// exceeds its bucket.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(callerKey(r)) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, ok := rl.byKey[key]
	if !ok {
		entry = &rateEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.byKey[key] = entry
	}
	entry.lastSeen = now

	for k, e := range rl.byKey {
		if now.Sub(e.lastSeen) > rl.idleTTL {
			delete(rl.byKey, k)
		}
	}

	return entry.limiter.Allow()
}

func callerKey(r *http.Request) string {
	if addr := GetAddressFromContext(r.Context()); addr != "" {
		return addr
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
