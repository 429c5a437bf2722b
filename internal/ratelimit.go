package internal

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type rateLimiter struct {
	mu    sync.Mutex
	store map[string]*rateEntry
	rps   rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time
}

type rateEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewRateLimitHandler limits next to rps requests per second per client IP.
// Idle clients are forgotten after ttl.
func NewRateLimitHandler(next http.Handler, rps int64, burst int64, ttl time.Duration) http.Handler {
	if rps <= 0 {
		return next
	}
	limiter := newRateLimiter(rps, burst, ttl)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.allow(clientIP(r)) {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newRateLimiter(rps int64, burst int64, ttl time.Duration) *rateLimiter {
	if burst <= 0 {
		burst = rps
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &rateLimiter{
		store: make(map[string]*rateEntry),
		rps:   rate.Limit(rps),
		burst: int(burst),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (l *rateLimiter) allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for k, entry := range l.store {
		if now.Sub(entry.seen) > l.ttl {
			delete(l.store, k)
		}
	}

	entry, ok := l.store[key]
	if !ok {
		entry = &rateEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.store[key] = entry
	}
	entry.seen = now
	return entry.limiter.AllowN(now, 1)
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
