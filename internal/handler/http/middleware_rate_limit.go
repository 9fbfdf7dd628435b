package http

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MKhiriev/go-natours/internal/logger"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP. A bucket holds
// limit requests and refills completely over window.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	limit int
	every rate.Limit
	now   func() time.Time
}

// NewIPRateLimiter returns a limiter allowing limit requests per window and
// IP. A non-positive limit or window disables limiting.
func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		now:      time.Now,
	}
	if limit > 0 && window > 0 {
		l.every = rate.Every(window / time.Duration(limit))
	}
	return l
}

func (l *IPRateLimiter) enabled() bool {
	return l.limit > 0 && l.every > 0
}

func (l *IPRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.limit)}
		l.visitors[ip] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

// Allow reports whether ip may make one more request now. The second result
// is the number of requests left in the bucket.
func (l *IPRateLimiter) Allow(ip string) (bool, int) {
	if !l.enabled() {
		return true, 0
	}

	limiter := l.get(ip)
	now := l.now()
	allowed := limiter.AllowN(now, 1)
	remaining := int(limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// Sweep forgets every IP not seen for idle and returns how many were removed.
func (l *IPRateLimiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked IPs.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// rateLimit answers 429 once the client IP used up its bucket.
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.enabled() {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		allowed, remaining := h.limiter.Allow(ip)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(h.limiter.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			logger.FromRequest(r).Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rate limit exceeded")
			h.writeError(w, r, errTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP is the host part of RemoteAddr, which chi's RealIP middleware has
// already replaced with the forwarded address if there was one.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
