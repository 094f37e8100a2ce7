package constants

import "fmt"

type BidStatus string

const (
	BidPending  BidStatus = "pending"
	BidAccepted BidStatus = "accepted"
	BidRejected BidStatus = "rejected"
)

var BidStatuses = []BidStatus{BidPending, BidAccepted, BidRejected}

var bidTransitions = map[BidStatus][]BidStatus{
	BidPending:  {BidAccepted, BidRejected},
	BidAccepted: {},
	BidRejected: {},
}

func ParseBidStatus(s string) (BidStatus, error) {
	status := BidStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown bid status %q", s)
	}
	return status, nil
}

func (s BidStatus) Valid() bool {
	_, ok := bidTransitions[s]
	return ok
}

func (s BidStatus) IsTerminal() bool {
	next, ok := bidTransitions[s]
	return ok && len(next) == 0
}

// IsActive reports whether a bid still occupies its bidder's slot on a task.
func (s BidStatus) IsActive() bool {
	return s == BidPending || s == BidAccepted
}

func (s BidStatus) CanTransitionTo(next BidStatus) bool {
	for _, to := range bidTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

func (s BidStatus) String() string {
	return string(s)
}
