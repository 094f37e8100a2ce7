package constants

import "testing"

func TestTaskTransitionTableIsExhaustive(t *testing.T) {
	if len(taskTransitions) != len(TaskStatuses) {
		t.Fatalf("transition table has %d entries, want %d", len(taskTransitions), len(TaskStatuses))
	}
	for _, s := range TaskStatuses {
		if _, ok := taskTransitions[s]; !ok {
			t.Errorf("status %s has no transition entry", s)
		}
		for _, to := range taskTransitions[s] {
			if !to.Valid() {
				t.Errorf("status %s transitions to unknown status %s", s, to)
			}
		}
	}
}

func TestBidTransitionTableIsExhaustive(t *testing.T) {
	if len(bidTransitions) != len(BidStatuses) {
		t.Fatalf("transition table has %d entries, want %d", len(bidTransitions), len(BidStatuses))
	}
	for _, s := range BidStatuses {
		if _, ok := bidTransitions[s]; !ok {
			t.Errorf("status %s has no transition entry", s)
		}
	}
}

func TestTaskTransitions(t *testing.T) {
	cases := []struct {
		from, to TaskStatus
		want     bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusCancelled, true},
		{StatusOpen, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusOpen, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusOpen, false},
		{StatusCancelled, StatusOpen, false},
		{StatusCancelled, StatusInProgress, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}

	if !StatusCompleted.IsTerminal() || !StatusCancelled.IsTerminal() {
		t.Error("completed and cancelled must be terminal")
	}
	if StatusOpen.IsTerminal() || StatusInProgress.IsTerminal() {
		t.Error("open and in_progress must not be terminal")
	}
}

func TestBidTransitions(t *testing.T) {
	if !BidPending.CanTransitionTo(BidAccepted) || !BidPending.CanTransitionTo(BidRejected) {
		t.Error("pending must transition to accepted and rejected")
	}
	for _, from := range []BidStatus{BidAccepted, BidRejected} {
		for _, to := range BidStatuses {
			if from.CanTransitionTo(to) {
				t.Errorf("%s must be terminal, found edge to %s", from, to)
			}
		}
	}
}

func TestBidIsActive(t *testing.T) {
	want := map[BidStatus]bool{BidPending: true, BidAccepted: true, BidRejected: false}
	for _, s := range BidStatuses {
		if s.IsActive() != want[s] {
			t.Errorf("%s.IsActive() = %v, want %v", s, s.IsActive(), want[s])
		}
	}
}

func TestParse(t *testing.T) {
	if _, err := ParseTaskStatus("archived"); err == nil {
		t.Error("expected error for unknown task status")
	}
	if s, err := ParseTaskStatus("in_progress"); err != nil || s != StatusInProgress {
		t.Errorf("ParseTaskStatus(in_progress) = %q, %v", s, err)
	}
	if _, err := ParseBidStatus("withdrawn"); err == nil {
		t.Error("expected error for unknown bid status")
	}
	if _, err := ParseRole("admin"); err == nil {
		t.Error("expected error for unknown role")
	}
	if r, err := ParseRole("freelancer"); err != nil || r != RoleFreelancer {
		t.Errorf("ParseRole(freelancer) = %q, %v", r, err)
	}
}
