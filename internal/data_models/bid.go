package dto

import "github.com/shopspring/decimal"

type CreateBidRequest struct {
	TaskID           string          `json:"task_id"`
	Amount           decimal.Decimal `json:"amount"`
	ProposedDeadline string          `json:"proposed_deadline"`
	CoverLetter      string          `json:"cover_letter"`
}

type UpdateBidRequest struct {
	Amount           *decimal.Decimal `json:"amount"`
	ProposedDeadline *string          `json:"proposed_deadline"`
	CoverLetter      *string          `json:"cover_letter"`
	Version          *uint            `json:"version"`
}
