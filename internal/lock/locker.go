// Package lock provides per-key mutual exclusion for task-scoped
// transactions. Keys are independent: holding one never blocks another.
package lock

import (
	"context"
	"errors"
)

type Locker interface {
	// Lock blocks until key is held or ctx is done. The returned release
	// function is safe to call more than once.
	Lock(ctx context.Context, key string) (release func(), err error)
}

var ErrNotAcquired = errors.New("lock not acquired")

func TaskKey(taskID string) string {
	return "task:" + taskID
}
