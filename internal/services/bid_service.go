package services

import (
	"context"
	"log/slog"

	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	"task-market.com/task-market/internal/identity"
	model "task-market.com/task-market/internal/models"
	repository "task-market.com/task-market/internal/repositories"
)

// CreateBid places a pending bid from a freelancer on an open task. The
// task's status is re-read inside the inserting transaction, under the
// task's lock, so a bid can never land on a task that just left open.
func (m *Marketplace) CreateBid(ctx context.Context, actor identity.Actor, draft BidDraft) (*model.Bid, error) {
	if err := m.gate.Authorize(actor, identity.ActionCreateBid, identity.Resource{}); err != nil {
		return nil, err
	}
	if draft.TaskID == "" {
		return nil, apperrors.ErrTaskIDRequired
	}

	now := m.now().UTC()
	if err := validateBidContent(draft.Amount, draft.ProposedDeadline, draft.CoverLetter, dateOf(now)); err != nil {
		return nil, err
	}

	var created *model.Bid
	err := m.withTaskLock(ctx, draft.TaskID, func() error {
		return m.store.Transaction(ctx, func(tx *repository.Store) error {
			task, err := tx.Tasks.FindByIDForUpdate(ctx, draft.TaskID)
			if err != nil {
				return err
			}
			if task.Status != constants.StatusOpen {
				return apperrors.InvalidState("task is %s and no longer accepts bids", task.Status)
			}
			if err := m.gate.Authorize(actor, identity.ActionCreateBid, identity.Resource{OwnerID: task.OwnerID}); err != nil {
				return err
			}

			active, err := tx.Bids.HasActive(ctx, task.ID, actor.ID)
			if err != nil {
				return err
			}
			if active {
				return apperrors.ErrDuplicateBid
			}

			bid := &model.Bid{
				TaskID:           task.ID,
				BidderID:         actor.ID,
				Amount:           draft.Amount,
				ProposedDeadline: draft.ProposedDeadline.UTC(),
				CoverLetter:      draft.CoverLetter,
				CreatedAt:        now,
			}
			if err := tx.Bids.Create(ctx, bid); err != nil {
				return err
			}

			created = bid
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "bid created",
		slog.String("bid_id", created.ID),
		slog.String("task_id", created.TaskID),
		slog.String("bidder_id", created.BidderID),
	)
	return created, nil
}

// UpdateBid lets a bid's author revise it while it is still pending.
func (m *Marketplace) UpdateBid(ctx context.Context, actor identity.Actor, id string, patch BidPatch) (*model.Bid, error) {
	bid, err := m.store.Bids.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *model.Bid
	err = m.withTaskLock(ctx, bid.TaskID, func() error {
		return m.store.Transaction(ctx, func(tx *repository.Store) error {
			current, err := tx.Bids.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if err := m.gate.Authorize(actor, identity.ActionEditBid, identity.Resource{OwnerID: current.BidderID}); err != nil {
				return err
			}
			if current.Status != constants.BidPending {
				return apperrors.ErrBidNotPending
			}
			if patch.Version != nil && *patch.Version != current.Version {
				return apperrors.ErrOptimisticLock
			}

			if patch.Amount != nil {
				current.Amount = *patch.Amount
			}
			if patch.ProposedDeadline != nil {
				current.ProposedDeadline = patch.ProposedDeadline.UTC()
			}
			if patch.CoverLetter != nil {
				current.CoverLetter = *patch.CoverLetter
			}

			if err := validateBidContent(current.Amount, current.ProposedDeadline, current.CoverLetter, m.today()); err != nil {
				return err
			}
			if err := tx.Bids.Update(ctx, current); err != nil {
				return err
			}

			updated = current
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "bid updated", slog.String("bid_id", updated.ID))
	return updated, nil
}

// AcceptBid is the acceptance transaction: under the task's lock and in one
// database transaction it accepts bidID, rejects every other pending bid on
// the task and moves the task to in_progress. Either all of that commits or
// none of it does.
func (m *Marketplace) AcceptBid(ctx context.Context, actor identity.Actor, bidID string) (*AcceptResult, error) {
	bid, err := m.store.Bids.FindByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	var (
		result   *AcceptResult
		rejected int64
	)
	err = m.withTaskLock(ctx, bid.TaskID, func() error {
		return m.store.Transaction(ctx, func(tx *repository.Store) error {
			task, err := tx.Tasks.FindByIDForUpdate(ctx, bid.TaskID)
			if err != nil {
				return err
			}
			if err := m.gate.Authorize(actor, identity.ActionAcceptBid, identity.Resource{OwnerID: task.OwnerID}); err != nil {
				return err
			}

			target, err := tx.Bids.FindByID(ctx, bidID)
			if err != nil {
				return err
			}
			if task.Status != constants.StatusOpen {
				return apperrors.InvalidState("task is %s; bids can only be accepted on open tasks", task.Status)
			}
			if target.Status != constants.BidPending {
				return apperrors.InvalidState("bid is %s; only pending bids can be accepted", target.Status)
			}

			if err := tx.Bids.SetStatus(ctx, target, constants.BidAccepted); err != nil {
				return err
			}

			rejected, err = tx.Bids.RejectPending(ctx, task.ID, target.ID)
			if err != nil {
				return err
			}

			bidderID := target.BidderID
			task.FreelancerID = &bidderID
			if err := tx.Tasks.SetStatus(ctx, task, constants.StatusInProgress); err != nil {
				return err
			}

			result = &AcceptResult{Task: task, Bid: target}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "bid accepted",
		slog.String("bid_id", result.Bid.ID),
		slog.String("task_id", result.Task.ID),
		slog.String("freelancer_id", result.Bid.BidderID),
		slog.Int64("rejected_bids", rejected),
	)
	return result, nil
}
