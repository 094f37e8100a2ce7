package dto

import "github.com/shopspring/decimal"

type TaskRequestData struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Budget         decimal.Decimal `json:"budget"`
	Deadline       string          `json:"deadline"`
	Category       string          `json:"category"`
	RequiredSkills []string        `json:"required_skills"`
	Attachments    []string        `json:"attachments"`
}

type CreateTaskRequest = TaskRequestData

// UpdateTaskRequest is a partial update: omitted fields are left unchanged.
type UpdateTaskRequest struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	Budget         *decimal.Decimal `json:"budget"`
	Deadline       *string          `json:"deadline"`
	Category       *string          `json:"category"`
	RequiredSkills *[]string        `json:"required_skills"`
	Attachments    *[]string        `json:"attachments"`
	Version        *uint            `json:"version"`
}
