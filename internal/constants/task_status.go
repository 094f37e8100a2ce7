package constants

import "fmt"

type TaskStatus string

const (
	StatusOpen       TaskStatus = "open"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists every task status in lifecycle order.
var TaskStatuses = []TaskStatus{StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled}

// taskTransitions holds the outgoing edges of every task status. Terminal
// statuses map to an empty slice; a status missing from the table is a bug.
var taskTransitions = map[TaskStatus][]TaskStatus{
	StatusOpen:       {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown task status %q", s)
	}
	return status, nil
}

func (s TaskStatus) Valid() bool {
	_, ok := taskTransitions[s]
	return ok
}

func (s TaskStatus) IsTerminal() bool {
	next, ok := taskTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether the lifecycle has an edge from s to next.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, to := range taskTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

func (s TaskStatus) String() string {
	return string(s)
}
