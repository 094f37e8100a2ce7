package model

import (
	"time"

	"github.com/shopspring/decimal"

	"task-market.com/task-market/internal/constants"
)

type Bid struct {
	ID               string              `gorm:"primaryKey;size:36" json:"id"`
	TaskID           string              `gorm:"size:36;not null;index:idx_bids_task_bidder,priority:1" json:"task_id"`
	BidderID         string              `gorm:"size:64;not null;index;index:idx_bids_task_bidder,priority:2" json:"bidder_id"`
	Amount           decimal.Decimal     `gorm:"type:decimal(14,2);not null" json:"amount"`
	ProposedDeadline time.Time           `gorm:"not null" json:"proposed_deadline"`
	CoverLetter      string              `gorm:"type:text;not null" json:"cover_letter"`
	Status           constants.BidStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Version          uint                `gorm:"not null;default:1" json:"version"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}
