// Package identity answers the authorization questions every marketplace
// mutation asks. It holds no state: the caller's identity is resolved
// upstream and handed in as an Actor.
package identity

import (
	"context"

	"task-market.com/task-market/internal/constants"
)

// Actor is an already-authenticated caller.
type Actor struct {
	ID   string
	Role constants.Role
}

type Action string

const (
	ActionCreateTask   Action = "create_task"
	ActionEditTask     Action = "edit_task"
	ActionDeleteTask   Action = "delete_task"
	ActionCancelTask   Action = "cancel_task"
	ActionCompleteTask Action = "complete_task"
	ActionAcceptBid    Action = "accept_bid"
	ActionCreateBid    Action = "create_bid"
	ActionEditBid      Action = "edit_bid"
	ActionRead         Action = "read"
)

// Resource describes the entity an action targets. OwnerID is the task owner
// for task actions and bid creation, and the bid author for ActionEditBid.
type Resource struct {
	OwnerID string
}

type actorKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
