package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Store groups the task and bid repositories over one database handle so
// they can share a transaction.
type Store struct {
	db    *gorm.DB
	now   func() time.Time
	Tasks *TaskRepository
	Bids  *BidRepository
}

func NewStore(db *gorm.DB) *Store {
	return newStore(db, time.Now)
}

func newStore(db *gorm.DB, now func() time.Time) *Store {
	s := &Store{
		db:    db,
		now:   now,
		Tasks: NewTaskRepository(db),
		Bids:  NewBidRepository(db),
	}
	s.Tasks.now = now
	s.Bids.now = now
	return s
}

// WithClock returns a Store over the same database whose repositories stamp
// created_at and updated_at from now.
func (s *Store) WithClock(now func() time.Time) *Store {
	return newStore(s.db, now)
}

// Transaction runs fn against a Store bound to a single database
// transaction. Returning an error from fn rolls back every write fn made and
// the error is returned unchanged.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newStore(tx, s.now))
	})
}

// jsonColumn encodes a string list the way the json serializer on the
// model stores it, for use in map based updates.
func jsonColumn(values []string) interface{} {
	if values == nil {
		return nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return string(b)
}
