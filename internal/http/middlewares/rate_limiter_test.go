package middleware

import (
	"fmt"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestRateLimiter_LimitsPerKey(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	limiter := newRateLimiter(2, time.Minute, clock.now)

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.allow("a"); !ok {
			t.Fatalf("request %d rejected", i)
		}
	}
	ok, wait := limiter.allow("a")
	if ok || wait != time.Minute {
		t.Fatalf("third request: ok=%v wait=%s", ok, wait)
	}
	if ok, _ := limiter.allow("b"); !ok {
		t.Fatal("other key must have its own budget")
	}

	clock.t = clock.t.Add(time.Minute + time.Second)
	if ok, _ := limiter.allow("a"); !ok {
		t.Fatal("new window must reset the count")
	}
}

func TestRateLimiter_DropsExpiredBuckets(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	limiter := newRateLimiter(5, time.Minute, clock.now)

	for i := 0; i < 100; i++ {
		limiter.allow(fmt.Sprintf("ip:10.0.0.%d", i))
	}
	if n := limiter.size(); n != 100 {
		t.Fatalf("expected 100 buckets, got %d", n)
	}

	clock.t = clock.t.Add(2 * time.Minute)
	limiter.allow("ip:10.0.1.1")

	if n := limiter.size(); n != 1 {
		t.Fatalf("expected expired buckets dropped, %d remain", n)
	}
}
