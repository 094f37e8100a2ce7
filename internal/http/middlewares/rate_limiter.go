package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiter allows limit requests per caller per fixed window. Callers are
// keyed by actor when Identity ran first, by client IP otherwise.
func RateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	limiter := newRateLimiter(limit, window, time.Now)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ok, wait := limiter.allow(rateKey(c)); !ok {
				c.Response().Header().Set("Retry-After", retryAfter(wait))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

type bucket struct {
	count int
	start time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     int
	window    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func newRateLimiter(limit int, window time.Duration, now func() time.Time) *rateLimiter {
	return &rateLimiter{
		buckets:   make(map[string]*bucket),
		limit:     limit,
		window:    window,
		now:       now,
		lastSweep: now(),
	}
}

// allow counts one request for key. When the limit is reached it reports
// how long until the key's window resets.
func (l *rateLimiter) allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.start) > l.window {
		b = &bucket{start: now}
		l.buckets[key] = b
	}

	if b.count >= l.limit {
		return false, b.start.Add(l.window).Sub(now)
	}

	b.count++
	return true, 0
}

// sweep drops buckets whose window has ended, at most once per window.
func (l *rateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) <= l.window {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.start) > l.window {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func (l *rateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func rateKey(c echo.Context) string {
	if actor := ActorFrom(c); actor.ID != "" {
		return "actor:" + actor.ID
	}
	return "ip:" + c.RealIP()
}

func retryAfter(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
