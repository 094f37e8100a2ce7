package services

import (
	"context"

	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	"task-market.com/task-market/internal/identity"
	model "task-market.com/task-market/internal/models"
	repository "task-market.com/task-market/internal/repositories"
)

func (m *Marketplace) GetTask(ctx context.Context, id string) (*model.Task, error) {
	if id == "" {
		return nil, apperrors.ErrTaskIDRequired
	}
	return m.store.Tasks.FindByID(ctx, id)
}

func (m *Marketplace) ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error) {
	query := repository.TaskFilter{
		Category:     filter.Category,
		OwnerID:      filter.OwnerID,
		FreelancerID: filter.FreelancerID,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}

	if filter.Status != "" {
		status, err := constants.ParseTaskStatus(filter.Status)
		if err != nil {
			return nil, apperrors.Validation("%s", err.Error())
		}
		query.Status = status
	}

	if query.Limit == 0 {
		query.Limit = DefaultListLimit
	}
	if query.Limit < 0 || query.Limit > MaxListLimit {
		return nil, apperrors.ErrInvalidLimit
	}
	if query.Offset < 0 {
		return nil, apperrors.Validation("offset must not be negative")
	}

	return m.store.Tasks.List(ctx, query)
}

func (m *Marketplace) GetBid(ctx context.Context, id string) (*model.Bid, error) {
	return m.store.Bids.FindByID(ctx, id)
}

// ListBidsForTask returns every bid on taskID in submission order.
func (m *Marketplace) ListBidsForTask(ctx context.Context, taskID string) ([]model.Bid, error) {
	if taskID == "" {
		return nil, apperrors.ErrTaskIDRequired
	}
	if _, err := m.store.Tasks.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	return m.store.Bids.ListByTask(ctx, taskID)
}

func (m *Marketplace) ListBidsByBidder(ctx context.Context, bidderID, status string) ([]model.Bid, error) {
	var bidStatus constants.BidStatus
	if status != "" {
		parsed, err := constants.ParseBidStatus(status)
		if err != nil {
			return nil, apperrors.Validation("%s", err.Error())
		}
		bidStatus = parsed
	}
	return m.store.Bids.ListByBidder(ctx, bidderID, bidStatus)
}

// Stats summarizes the actor's own tasks and bids by status.
func (m *Marketplace) Stats(ctx context.Context, actor identity.Actor) (*Stats, error) {
	if err := m.gate.Authorize(actor, identity.ActionRead, identity.Resource{}); err != nil {
		return nil, err
	}

	tasks, err := m.store.Tasks.CountByStatus(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	bids, err := m.store.Bids.CountByStatus(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return &Stats{Tasks: tasks, Bids: bids}, nil
}
