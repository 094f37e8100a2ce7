package lock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
)

// releaseScript deletes the key only while it still holds our token, so a
// holder whose TTL expired never releases somebody else's lock.
var releaseScript = rueidis.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares per-key locks between service replicas using
// SET NX PX with a random token.
type RedisLocker struct {
	client rueidis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
}

func NewRedisLocker(client rueidis.Client, prefix string, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		wait:   wait,
	}
}

func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	if r.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.wait)
		defer cancel()
	}

	fullKey := r.prefix + key
	token := uuid.NewString()
	backoff := 5 * time.Millisecond

	for {
		cmd := r.client.B().Set().Key(fullKey).Value(token).Nx().PxMilliseconds(r.ttl.Milliseconds()).Build()
		err := r.client.Do(ctx, cmd).Error()
		if err == nil {
			return r.releaser(fullKey, token), nil
		}
		if !rueidis.IsRedisNil(err) {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
			}
			return nil, fmt.Errorf("lock: redis set %s: %w", fullKey, err)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
		case <-timer.C:
		}
		if backoff < 100*time.Millisecond {
			backoff *= 2
		}
	}
}

func (r *RedisLocker) releaser(fullKey, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() { r.release(fullKey, token) })
	}
}

func (r *RedisLocker) release(fullKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Exec(ctx, r.client, []string{fullKey}, []string{token}).Error(); err != nil {
		slog.Warn("lock: failed to release redis lock",
			slog.String("key", fullKey),
			slog.String("error", err.Error()),
		)
	}
}

var _ Locker = (*RedisLocker)(nil)
