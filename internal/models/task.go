package model

import (
	"time"

	"github.com/shopspring/decimal"

	"task-market.com/task-market/internal/constants"
)

type Task struct {
	ID             string               `gorm:"primaryKey;size:36" json:"id"`
	OwnerID        string               `gorm:"size:64;not null;index" json:"owner_id"`
	Title          string               `gorm:"not null" json:"title"`
	Description    string               `gorm:"type:text;not null" json:"description"`
	Budget         decimal.Decimal      `gorm:"type:decimal(14,2);not null" json:"budget"`
	Deadline       time.Time            `gorm:"not null" json:"deadline"`
	Category       string               `gorm:"size:64;index" json:"category"`
	RequiredSkills []string             `gorm:"type:text;serializer:json" json:"required_skills"`
	Attachments    []string             `gorm:"type:text;serializer:json" json:"attachments,omitempty"`
	FreelancerID   *string              `gorm:"size:64;index" json:"freelancer_id,omitempty"`
	Status         constants.TaskStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Version        uint                 `gorm:"not null;default:1" json:"version"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}
