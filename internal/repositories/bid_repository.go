package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	model "task-market.com/task-market/internal/models"
)

type BidRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{db: db, now: time.Now}
}

func (r *BidRepository) Create(ctx context.Context, bid *model.Bid) error {
	if bid.ID == "" {
		bid.ID = uuid.NewString()
	}
	if bid.CreatedAt.IsZero() {
		bid.CreatedAt = r.now().UTC()
	}
	bid.UpdatedAt = bid.CreatedAt
	bid.Status = constants.BidPending
	bid.Version = 1

	return r.db.WithContext(ctx).Create(bid).Error
}

func (r *BidRepository) FindByID(ctx context.Context, id string) (*model.Bid, error) {
	var bid model.Bid
	err := r.db.WithContext(ctx).First(&bid, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBidNotFound
		}
		return nil, err
	}
	return &bid, nil
}

// HasActive reports whether bidderID already holds a pending or accepted bid
// on taskID.
func (r *BidRepository) HasActive(ctx context.Context, taskID, bidderID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Bid{}).
		Where("task_id = ? AND bidder_id = ? AND status IN ?", taskID, bidderID, activeBidStatuses()).
		Count(&count).Error
	return count > 0, err
}

func activeBidStatuses() []constants.BidStatus {
	active := make([]constants.BidStatus, 0, len(constants.BidStatuses))
	for _, s := range constants.BidStatuses {
		if s.IsActive() {
			active = append(active, s)
		}
	}
	return active
}

func (r *BidRepository) ListByTask(ctx context.Context, taskID string) ([]model.Bid, error) {
	bids := []model.Bid{}
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at asc").Order("id").
		Find(&bids).Error
	return bids, err
}

// ListByBidder returns the bids placed by bidderID, newest first. An empty
// status returns bids in every status.
func (r *BidRepository) ListByBidder(ctx context.Context, bidderID string, status constants.BidStatus) ([]model.Bid, error) {
	query := r.db.WithContext(ctx).Where("bidder_id = ?", bidderID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	bids := []model.Bid{}
	err := query.Order("created_at desc").Order("id").Find(&bids).Error
	return bids, err
}

func (r *BidRepository) CountByTask(ctx context.Context, taskID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Bid{}).Where("task_id = ?", taskID).Count(&count).Error
	return count, err
}

// Update writes the editable content of a pending bid. ErrBidNotPending is
// returned once the bid has been resolved, ErrOptimisticLock when it was
// edited since it was read.
func (r *BidRepository) Update(ctx context.Context, bid *model.Bid) error {
	if bid.Status != constants.BidPending {
		return apperrors.ErrBidNotPending
	}

	now := r.now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Bid{}).
		Where("id = ? AND version = ? AND status = ?", bid.ID, bid.Version, constants.BidPending).
		Updates(map[string]interface{}{
			"amount":            bid.Amount,
			"proposed_deadline": bid.ProposedDeadline,
			"cover_letter":      bid.CoverLetter,
			"updated_at":        now,
			"version":           gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		current, err := r.FindByID(ctx, bid.ID)
		if err != nil {
			return err
		}
		if current.Status != constants.BidPending {
			return apperrors.ErrBidNotPending
		}
		return apperrors.ErrOptimisticLock
	}

	bid.Version++
	bid.UpdatedAt = now
	return nil
}

// SetStatus resolves bid to next, guarded the same way as
// TaskRepository.SetStatus.
func (r *BidRepository) SetStatus(ctx context.Context, bid *model.Bid, next constants.BidStatus) error {
	if !bid.Status.CanTransitionTo(next) {
		return apperrors.ErrInvalidTransition
	}

	now := r.now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Bid{}).
		Where("id = ? AND status = ?", bid.ID, bid.Status).
		Updates(map[string]interface{}{
			"status":     next,
			"updated_at": now,
			"version":    gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, bid.ID); err != nil {
			return err
		}
		return apperrors.ErrInvalidTransition
	}

	bid.Status = next
	bid.Version++
	bid.UpdatedAt = now
	return nil
}

// RejectPending rejects every pending bid on taskID except exceptID (which
// may be empty) and returns how many bids changed.
func (r *BidRepository) RejectPending(ctx context.Context, taskID, exceptID string) (int64, error) {
	if !constants.BidPending.CanTransitionTo(constants.BidRejected) {
		return 0, apperrors.ErrInvalidTransition
	}

	query := r.db.WithContext(ctx).Model(&model.Bid{}).
		Where("task_id = ? AND status = ?", taskID, constants.BidPending)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}

	res := query.Updates(map[string]interface{}{
		"status":     constants.BidRejected,
		"updated_at": r.now().UTC(),
		"version":    gorm.Expr("version + 1"),
	})
	return res.RowsAffected, res.Error
}

func (r *BidRepository) CountByStatus(ctx context.Context, bidderID string) (map[constants.BidStatus]int64, error) {
	var rows []struct {
		Status constants.BidStatus
		Count  int64
	}

	err := r.db.WithContext(ctx).Model(&model.Bid{}).
		Select("status, count(*) as count").
		Where("bidder_id = ?", bidderID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[constants.BidStatus]int64, len(constants.BidStatuses))
	for _, s := range constants.BidStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
