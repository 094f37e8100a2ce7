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

func (m *Marketplace) CreateTask(ctx context.Context, actor identity.Actor, draft TaskDraft) (*model.Task, error) {
	if err := m.gate.Authorize(actor, identity.ActionCreateTask, identity.Resource{}); err != nil {
		return nil, err
	}

	now := m.now().UTC()
	if err := validateTaskContent(draft.Title, draft.Description, draft.Budget, draft.Deadline, dateOf(now)); err != nil {
		return nil, err
	}

	task := &model.Task{
		OwnerID:        actor.ID,
		Title:          draft.Title,
		Description:    draft.Description,
		Budget:         draft.Budget,
		Deadline:       draft.Deadline.UTC(),
		Category:       draft.Category,
		RequiredSkills: normalizeSkills(draft.RequiredSkills),
		Attachments:    normalizeAttachments(draft.Attachments),
		Status:         constants.StatusOpen,
		CreatedAt:      now,
	}

	if err := m.store.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "task created",
		slog.String("task_id", task.ID),
		slog.String("owner_id", task.OwnerID),
		slog.String("budget", task.Budget.String()),
	)
	return task, nil
}

// UpdateTask applies patch to an open task owned by actor.
func (m *Marketplace) UpdateTask(ctx context.Context, actor identity.Actor, id string, patch TaskPatch) (*model.Task, error) {
	if id == "" {
		return nil, apperrors.ErrTaskIDRequired
	}

	var updated *model.Task
	err := m.withTaskLock(ctx, id, func() error {
		return m.store.Transaction(ctx, func(tx *repository.Store) error {
			task, err := tx.Tasks.FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if err := m.gate.Authorize(actor, identity.ActionEditTask, identity.Resource{OwnerID: task.OwnerID}); err != nil {
				return err
			}
			if task.Status != constants.StatusOpen {
				return apperrors.InvalidState("task is %s and can no longer be edited", task.Status)
			}
			if patch.Version != nil && *patch.Version != task.Version {
				return apperrors.ErrOptimisticLock
			}

			applyTaskPatch(task, patch)

			if err := validateTaskContent(task.Title, task.Description, task.Budget, task.Deadline, dateOf(task.CreatedAt)); err != nil {
				return err
			}
			if err := tx.Tasks.Update(ctx, task); err != nil {
				return err
			}

			updated = task
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "task updated",
		slog.String("task_id", updated.ID),
		slog.Uint64("version", uint64(updated.Version)),
	)
	return updated, nil
}

func applyTaskPatch(task *model.Task, patch TaskPatch) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Budget != nil {
		task.Budget = *patch.Budget
	}
	if patch.Deadline != nil {
		task.Deadline = patch.Deadline.UTC()
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.RequiredSkills != nil {
		task.RequiredSkills = normalizeSkills(*patch.RequiredSkills)
	}
	if patch.Attachments != nil {
		task.Attachments = normalizeAttachments(*patch.Attachments)
	}
}

// DeleteTask removes a task that never attracted a bid. Tasks that left
// open, or have any bid at all, are kept so no bid loses its task.
func (m *Marketplace) DeleteTask(ctx context.Context, actor identity.Actor, id string) error {
	if id == "" {
		return apperrors.ErrTaskIDRequired
	}

	err := m.withTaskLock(ctx, id, func() error {
		return m.store.Transaction(ctx, func(tx *repository.Store) error {
			task, err := tx.Tasks.FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if err := m.gate.Authorize(actor, identity.ActionDeleteTask, identity.Resource{OwnerID: task.OwnerID}); err != nil {
				return err
			}
			if task.Status != constants.StatusOpen {
				return apperrors.InvalidState("task is %s and can no longer be deleted", task.Status)
			}

			bids, err := tx.Bids.CountByTask(ctx, id)
			if err != nil {
				return err
			}
			if bids > 0 {
				return apperrors.Conflict("task has %d bid(s); cancel it instead", bids)
			}

			return tx.Tasks.Delete(ctx, id)
		})
	})
	if err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "task deleted", slog.String("task_id", id))
	return nil
}

// CancelTask moves a task to cancelled and rejects its pending bids.
// Cancelling an in-progress task is gated by Policy.AllowCancelInProgress.
func (m *Marketplace) CancelTask(ctx context.Context, actor identity.Actor, id string) (*model.Task, error) {
	if id == "" {
		return nil, apperrors.ErrTaskIDRequired
	}

	var (
		cancelled *model.Task
		rejected  int64
	)
	err := m.withTaskLock(ctx, id, func() error {
		return m.store.Transaction(ctx, func(tx *repository.Store) error {
			task, err := tx.Tasks.FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if err := m.gate.Authorize(actor, identity.ActionCancelTask, identity.Resource{OwnerID: task.OwnerID}); err != nil {
				return err
			}

			switch task.Status {
			case constants.StatusOpen:
			case constants.StatusInProgress:
				if !m.policy.AllowCancelInProgress {
					return apperrors.InvalidState("task is in progress; cancellation after acceptance is disabled")
				}
			default:
				return apperrors.InvalidState("task is %s and cannot be cancelled", task.Status)
			}

			rejected, err = tx.Bids.RejectPending(ctx, task.ID, "")
			if err != nil {
				return err
			}
			if err := tx.Tasks.SetStatus(ctx, task, constants.StatusCancelled); err != nil {
				return err
			}

			cancelled = task
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "task cancelled",
		slog.String("task_id", cancelled.ID),
		slog.Int64("rejected_bids", rejected),
	)
	return cancelled, nil
}

func (m *Marketplace) CompleteTask(ctx context.Context, actor identity.Actor, id string) (*model.Task, error) {
	if id == "" {
		return nil, apperrors.ErrTaskIDRequired
	}

	var completed *model.Task
	err := m.withTaskLock(ctx, id, func() error {
		return m.store.Transaction(ctx, func(tx *repository.Store) error {
			task, err := tx.Tasks.FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if err := m.gate.Authorize(actor, identity.ActionCompleteTask, identity.Resource{OwnerID: task.OwnerID}); err != nil {
				return err
			}
			if task.Status != constants.StatusInProgress {
				return apperrors.InvalidState("task is %s; only in-progress tasks can be completed", task.Status)
			}
			if err := tx.Tasks.SetStatus(ctx, task, constants.StatusCompleted); err != nil {
				return err
			}

			completed = task
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "task completed", slog.String("task_id", completed.ID))
	return completed, nil
}
