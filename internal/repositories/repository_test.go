package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	model "task-market.com/task-market/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func newTask(owner string) *model.Task {
	return &model.Task{
		OwnerID:        owner,
		Title:          "Logo design",
		Description:    "Need a logo",
		Budget:         decimal.RequireFromString("150.00"),
		Deadline:       time.Now().UTC().AddDate(0, 0, 7),
		Category:       "design",
		RequiredSkills: []string{"illustrator", "branding"},
	}
}

func newBid(taskID, bidder string) *model.Bid {
	return &model.Bid{
		TaskID:           taskID,
		BidderID:         bidder,
		Amount:           decimal.RequireFromString("120.50"),
		ProposedDeadline: time.Now().UTC().AddDate(0, 0, 5),
		CoverLetter:      "I can do it",
	}
}

func TestTaskRepository_CreateAndFind(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	task := newTask("client-1")
	if err := store.Tasks.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID == "" || task.Version != 1 || task.Status != constants.StatusOpen {
		t.Fatalf("unexpected created task: %+v", task)
	}

	found, err := store.Tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !found.Budget.Equal(task.Budget) {
		t.Errorf("budget = %s, want %s", found.Budget, task.Budget)
	}
	if len(found.RequiredSkills) != 2 || found.RequiredSkills[0] != "illustrator" {
		t.Errorf("required skills = %v", found.RequiredSkills)
	}

	if _, err := store.Tasks.FindByID(ctx, "missing"); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskRepository_UpdateOptimisticLock(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	task := newTask("client-1")
	_ = store.Tasks.Create(ctx, task)

	stale := *task

	task.Title = "Logo and favicon"
	task.RequiredSkills = []string{"figma"}
	if err := store.Tasks.Update(ctx, task); err != nil {
		t.Fatalf("update: %v", err)
	}
	if task.Version != 2 {
		t.Errorf("version = %d, want 2", task.Version)
	}

	stale.Title = "lost update"
	if err := store.Tasks.Update(ctx, &stale); !errors.Is(err, apperrors.ErrOptimisticLock) {
		t.Fatalf("expected ErrOptimisticLock, got %v", err)
	}

	found, _ := store.Tasks.FindByID(ctx, task.ID)
	if found.Title != "Logo and favicon" {
		t.Errorf("title = %q", found.Title)
	}
	if len(found.RequiredSkills) != 1 || found.RequiredSkills[0] != "figma" {
		t.Errorf("required skills = %v", found.RequiredSkills)
	}
}

func TestTaskRepository_SetStatus(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	task := newTask("client-1")
	_ = store.Tasks.Create(ctx, task)

	if err := store.Tasks.SetStatus(ctx, task, constants.StatusCompleted); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("open -> completed: expected ErrInvalidTransition, got %v", err)
	}

	stale := *task
	if err := store.Tasks.SetStatus(ctx, task, constants.StatusInProgress); err != nil {
		t.Fatalf("open -> in_progress: %v", err)
	}

	if err := store.Tasks.SetStatus(ctx, &stale, constants.StatusCancelled); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("stale transition: expected ErrInvalidTransition, got %v", err)
	}

	found, _ := store.Tasks.FindByID(ctx, task.ID)
	if found.Status != constants.StatusInProgress {
		t.Errorf("status = %s, want in_progress", found.Status)
	}

	missing := newTask("client-1")
	missing.ID = "missing"
	missing.Status = constants.StatusOpen
	if err := store.Tasks.SetStatus(ctx, missing, constants.StatusCancelled); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskRepository_ListFilters(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	design := newTask("client-1")
	_ = store.Tasks.Create(ctx, design)

	writing := newTask("client-2")
	writing.Category = "writing"
	_ = store.Tasks.Create(ctx, writing)
	_ = store.Tasks.SetStatus(ctx, writing, constants.StatusCancelled)

	all, err := store.Tasks.List(ctx, TaskFilter{})
	if err != nil || len(all) != 2 {
		t.Fatalf("list all = %d, %v", len(all), err)
	}

	open, _ := store.Tasks.List(ctx, TaskFilter{Status: constants.StatusOpen})
	if len(open) != 1 || open[0].ID != design.ID {
		t.Errorf("status filter returned %v", open)
	}

	byCategory, _ := store.Tasks.List(ctx, TaskFilter{Category: "writing"})
	if len(byCategory) != 1 || byCategory[0].ID != writing.ID {
		t.Errorf("category filter returned %v", byCategory)
	}

	byOwner, _ := store.Tasks.List(ctx, TaskFilter{OwnerID: "client-1"})
	if len(byOwner) != 1 || byOwner[0].ID != design.ID {
		t.Errorf("owner filter returned %v", byOwner)
	}

	page, _ := store.Tasks.List(ctx, TaskFilter{Limit: 1})
	if len(page) != 1 {
		t.Errorf("limit returned %d tasks", len(page))
	}

	counts, err := store.Tasks.CountByStatus(ctx, "client-2")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[constants.StatusCancelled] != 1 || counts[constants.StatusOpen] != 0 {
		t.Errorf("counts = %v", counts)
	}

	assigned := newTask("client-3")
	_ = store.Tasks.Create(ctx, assigned)
	freelancer := "freelancer-9"
	assigned.FreelancerID = &freelancer
	if err := store.Tasks.SetStatus(ctx, assigned, constants.StatusInProgress); err != nil {
		t.Fatalf("assign: %v", err)
	}

	mine, err := store.Tasks.List(ctx, TaskFilter{FreelancerID: freelancer})
	if err != nil {
		t.Fatalf("list by freelancer: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != assigned.ID || mine[0].FreelancerID == nil || *mine[0].FreelancerID != freelancer {
		t.Errorf("freelancer filter returned %v", mine)
	}
	if none, _ := store.Tasks.List(ctx, TaskFilter{FreelancerID: "freelancer-0"}); len(none) != 0 {
		t.Errorf("unknown freelancer matched %d tasks", len(none))
	}
}

func TestBidRepository_Lifecycle(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	task := newTask("client-1")
	_ = store.Tasks.Create(ctx, task)

	b1 := newBid(task.ID, "f1")
	b2 := newBid(task.ID, "f2")
	b3 := newBid(task.ID, "f3")
	for _, b := range []*model.Bid{b1, b2, b3} {
		if err := store.Bids.Create(ctx, b); err != nil {
			t.Fatalf("create bid: %v", err)
		}
		if b.Status != constants.BidPending {
			t.Fatalf("new bid status = %s", b.Status)
		}
	}

	active, err := store.Bids.HasActive(ctx, task.ID, "f1")
	if err != nil || !active {
		t.Fatalf("HasActive(f1) = %v, %v", active, err)
	}

	if err := store.Bids.SetStatus(ctx, b1, constants.BidAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}
	rejected, err := store.Bids.RejectPending(ctx, task.ID, b1.ID)
	if err != nil || rejected != 2 {
		t.Fatalf("RejectPending = %d, %v", rejected, err)
	}

	if err := store.Bids.SetStatus(ctx, b1, constants.BidRejected); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("accepted -> rejected: expected ErrInvalidTransition, got %v", err)
	}

	bids, _ := store.Bids.ListByTask(ctx, task.ID)
	statuses := map[string]constants.BidStatus{}
	for _, b := range bids {
		statuses[b.BidderID] = b.Status
	}
	if statuses["f1"] != constants.BidAccepted || statuses["f2"] != constants.BidRejected || statuses["f3"] != constants.BidRejected {
		t.Errorf("statuses = %v", statuses)
	}

	active, _ = store.Bids.HasActive(ctx, task.ID, "f2")
	if active {
		t.Error("rejected bid must not count as active")
	}
	active, _ = store.Bids.HasActive(ctx, task.ID, "f1")
	if !active {
		t.Error("accepted bid must count as active")
	}

	b2.Status = constants.BidRejected
	b2.CoverLetter = "late edit"
	if err := store.Bids.Update(ctx, b2); !errors.Is(err, apperrors.ErrBidNotPending) {
		t.Fatalf("update rejected bid: expected ErrBidNotPending, got %v", err)
	}

	counts, _ := store.Bids.CountByStatus(ctx, "f2")
	if counts[constants.BidRejected] != 1 || counts[constants.BidPending] != 0 {
		t.Errorf("counts = %v", counts)
	}
}

func TestBidRepository_UpdateDetectsResolvedBid(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	task := newTask("client-1")
	_ = store.Tasks.Create(ctx, task)
	bid := newBid(task.ID, "f1")
	_ = store.Bids.Create(ctx, bid)

	stale := *bid
	if err := store.Bids.SetStatus(ctx, bid, constants.BidRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}

	stale.CoverLetter = "edited after rejection"
	if err := store.Bids.Update(ctx, &stale); !errors.Is(err, apperrors.ErrBidNotPending) {
		t.Fatalf("expected ErrBidNotPending, got %v", err)
	}
}

func TestBidRepository_ListByBidder(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	t1 := newTask("client-1")
	t2 := newTask("client-2")
	_ = store.Tasks.Create(ctx, t1)
	_ = store.Tasks.Create(ctx, t2)

	_ = store.Bids.Create(ctx, newBid(t1.ID, "f1"))
	rejected := newBid(t2.ID, "f1")
	_ = store.Bids.Create(ctx, rejected)
	_ = store.Bids.Create(ctx, newBid(t2.ID, "f2"))
	_ = store.Bids.SetStatus(ctx, rejected, constants.BidRejected)

	mine, err := store.Bids.ListByBidder(ctx, "f1", "")
	if err != nil || len(mine) != 2 {
		t.Fatalf("ListByBidder = %d, %v", len(mine), err)
	}

	pending, _ := store.Bids.ListByBidder(ctx, "f1", constants.BidPending)
	if len(pending) != 1 || pending[0].TaskID != t1.ID {
		t.Errorf("pending filter returned %v", pending)
	}
}

func TestStore_TransactionRollsBack(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	task := newTask("client-1")
	_ = store.Tasks.Create(ctx, task)
	bid := newBid(task.ID, "f1")
	_ = store.Bids.Create(ctx, bid)

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx *Store) error {
		b, err := tx.Bids.FindByID(ctx, bid.ID)
		if err != nil {
			return err
		}
		if err := tx.Bids.SetStatus(ctx, b, constants.BidAccepted); err != nil {
			return err
		}
		tk, err := tx.Tasks.FindByIDForUpdate(ctx, task.ID)
		if err != nil {
			return err
		}
		if err := tx.Tasks.SetStatus(ctx, tk, constants.StatusInProgress); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	foundBid, _ := store.Bids.FindByID(ctx, bid.ID)
	foundTask, _ := store.Tasks.FindByID(ctx, task.ID)
	if foundBid.Status != constants.BidPending || foundTask.Status != constants.StatusOpen {
		t.Errorf("rollback failed: bid=%s task=%s", foundBid.Status, foundTask.Status)
	}
}

func TestTaskRepository_Delete(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	task := newTask("client-1")
	_ = store.Tasks.Create(ctx, task)

	if err := store.Tasks.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Tasks.Delete(ctx, task.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Fatalf("second delete: expected ErrTaskNotFound, got %v", err)
	}
}

func TestStore_WithClockStampsWrites(t *testing.T) {
	stamp := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	store := NewStore(setupTestDB(t)).WithClock(func() time.Time { return stamp })
	ctx := context.Background()

	task := newTask("client-1")
	if err := store.Tasks.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !task.CreatedAt.Equal(stamp) {
		t.Errorf("created_at = %s, want %s", task.CreatedAt, stamp)
	}

	stamp = stamp.Add(time.Hour)
	err := store.Transaction(ctx, func(tx *Store) error {
		return tx.Tasks.SetStatus(ctx, task, constants.StatusCancelled)
	})
	if err != nil {
		t.Fatalf("set status: %v", err)
	}

	found, _ := store.Tasks.FindByID(ctx, task.ID)
	if !found.UpdatedAt.Equal(stamp) {
		t.Errorf("updated_at = %s, want %s", found.UpdatedAt, stamp)
	}
}
