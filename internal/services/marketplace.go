package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "task-market.com/task-market/internal/errors"
	"task-market.com/task-market/internal/identity"
	"task-market.com/task-market/internal/lock"
	repository "task-market.com/task-market/internal/repositories"
)

// Policy holds the lifecycle choices that are deployment configuration
// rather than fixed rules.
type Policy struct {
	// AllowCancelInProgress lets an owner cancel a task after a bid has been
	// accepted. When false only open tasks can be cancelled.
	AllowCancelInProgress bool
}

// Marketplace is the only place task and bid state changes. Every mutating
// entry point authorizes through the gate, takes the task's lock and runs
// its reads and writes in one transaction, so a failure leaves both stores
// untouched.
type Marketplace struct {
	store  *repository.Store
	gate   identity.Gate
	locker lock.Locker
	policy Policy
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Marketplace)

func WithClock(now func() time.Time) Option {
	return func(m *Marketplace) { m.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Marketplace) { m.logger = logger }
}

func WithPolicy(policy Policy) Option {
	return func(m *Marketplace) { m.policy = policy }
}

func NewMarketplace(store *repository.Store, locker lock.Locker, opts ...Option) *Marketplace {
	m := &Marketplace{
		store:  store,
		gate:   identity.NewGate(),
		locker: locker,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.store = store.WithClock(func() time.Time { return m.now() })
	return m
}

// withTaskLock runs fn while holding taskID's lock.
func (m *Marketplace) withTaskLock(ctx context.Context, taskID string, fn func() error) error {
	release, err := m.locker.Lock(ctx, lock.TaskKey(taskID))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			m.logger.WarnContext(ctx, "task lock not acquired",
				slog.String("task_id", taskID),
				slog.String("error", err.Error()),
			)
			return apperrors.ErrLockUnavailable
		}
		return fmt.Errorf("lock task %s: %w", taskID, err)
	}
	defer release()

	return fn()
}

func (m *Marketplace) today() time.Time {
	return dateOf(m.now())
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
