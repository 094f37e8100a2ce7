package config

import "task-market.com/task-market/internal/lock"

// NewLocker returns the per-task locker for cfg.LockBackend and a close
// function for any client it opened.
func NewLocker(cfg Config) (lock.Locker, func(), error) {
	if cfg.LockBackend != LockRedis {
		return lock.NewMemoryLocker(cfg.LockWait()), func() {}, nil
	}

	client, err := NewRedisClient(cfg.RedisAddr())
	if err != nil {
		return nil, nil, err
	}
	return lock.NewRedisLocker(client, cfg.LockKeyPrefix, cfg.LockTTL(), cfg.LockWait()), client.Close, nil
}
