package identity

import (
	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
)

// Gate encodes the marketplace authorization rules.
type Gate struct{}

func NewGate() Gate {
	return Gate{}
}

// Authorize returns nil when actor may perform action on resource and a
// forbidden Exception carrying the reason otherwise.
func (Gate) Authorize(actor Actor, action Action, resource Resource) error {
	if actor.ID == "" {
		return apperrors.Forbidden("unauthenticated caller")
	}

	switch action {
	case ActionRead:
		return nil

	case ActionCreateTask:
		if actor.Role != constants.RoleClient {
			return apperrors.Forbidden("only clients can create tasks")
		}
		return nil

	case ActionEditTask, ActionDeleteTask, ActionCancelTask, ActionCompleteTask:
		if resource.OwnerID != actor.ID {
			return apperrors.Forbidden("you can only manage your own tasks")
		}
		return nil

	case ActionAcceptBid:
		if resource.OwnerID != actor.ID {
			return apperrors.Forbidden("only the task owner can accept bids")
		}
		return nil

	case ActionCreateBid:
		if actor.Role != constants.RoleFreelancer {
			return apperrors.Forbidden("only freelancers can create bids")
		}
		if resource.OwnerID != "" && resource.OwnerID == actor.ID {
			return apperrors.Forbidden("you cannot bid on your own task")
		}
		return nil

	case ActionEditBid:
		if resource.OwnerID != actor.ID {
			return apperrors.Forbidden("you can only update your own bids")
		}
		return nil
	}

	return apperrors.Forbidden("unknown action %q", action)
}
