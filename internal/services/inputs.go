package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	model "task-market.com/task-market/internal/models"
)

type TaskDraft struct {
	Title          string
	Description    string
	Budget         decimal.Decimal
	Deadline       time.Time
	Category       string
	RequiredSkills []string
	Attachments    []string
}

// TaskPatch carries the fields an owner wants to change; nil means keep.
// A non-nil Version must match the stored version.
type TaskPatch struct {
	Title          *string
	Description    *string
	Budget         *decimal.Decimal
	Deadline       *time.Time
	Category       *string
	RequiredSkills *[]string
	Attachments    *[]string
	Version        *uint
}

type BidDraft struct {
	TaskID           string
	Amount           decimal.Decimal
	ProposedDeadline time.Time
	CoverLetter      string
}

type BidPatch struct {
	Amount           *decimal.Decimal
	ProposedDeadline *time.Time
	CoverLetter      *string
	Version          *uint
}

type AcceptResult struct {
	Task *model.Task `json:"task"`
	Bid  *model.Bid  `json:"bid"`
}

type TaskListFilter struct {
	Status       string
	Category     string
	OwnerID      string
	FreelancerID string
	Limit        int
	Offset       int
}

type Stats struct {
	Tasks map[constants.TaskStatus]int64 `json:"tasks"`
	Bids  map[constants.BidStatus]int64  `json:"bids"`
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200

	// Money columns are decimal(14,2).
	moneyScale = 2
)

var moneyCeiling = decimal.New(1, 12)

func validateTaskContent(title, description string, budget decimal.Decimal, deadline, earliest time.Time) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.Validation("title is required")
	}
	if strings.TrimSpace(description) == "" {
		return apperrors.Validation("description is required")
	}
	if err := validateMoney("budget", budget); err != nil {
		return err
	}
	if deadline.IsZero() {
		return apperrors.Validation("deadline is required")
	}
	if dateOf(deadline).Before(earliest) {
		return apperrors.Validation("deadline must not be before %s", earliest.Format(time.DateOnly))
	}
	return nil
}

func validateBidContent(amount decimal.Decimal, proposedDeadline time.Time, coverLetter string, today time.Time) error {
	if err := validateMoney("amount", amount); err != nil {
		return err
	}
	if proposedDeadline.IsZero() {
		return apperrors.Validation("proposed deadline is required")
	}
	if dateOf(proposedDeadline).Before(today) {
		return apperrors.Validation("proposed deadline must not be in the past")
	}
	if strings.TrimSpace(coverLetter) == "" {
		return apperrors.Validation("cover letter is required")
	}
	return nil
}

// validateMoney accepts positive values that fit the money columns exactly:
// at most two decimal places and below 10^12.
func validateMoney(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return apperrors.Validation("%s must be greater than 0", field)
	}
	if !v.Equal(v.Truncate(moneyScale)) {
		return apperrors.Validation("%s must have at most %d decimal places", field, moneyScale)
	}
	if v.GreaterThanOrEqual(moneyCeiling) {
		return apperrors.Validation("%s must be less than %s", field, moneyCeiling.String())
	}
	return nil
}

// normalizeSkills trims entries, drops empty ones and removes duplicates
// while keeping the first occurrence's position.
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func normalizeAttachments(attachments []string) []string {
	out := make([]string, 0, len(attachments))
	for _, a := range attachments {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
