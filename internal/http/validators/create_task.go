package validators

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	dto "task-market.com/task-market/internal/data_models"
)

// ValidateCreateTaskRequest checks the request shape and returns the parsed
// deadline. Business rules (positive budget, deadline not in the past) are
// enforced by the marketplace.
func ValidateCreateTaskRequest(r *dto.TaskRequestData) (time.Time, error) {
	if r.Title == "" {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if r.Description == "" {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "description is required")
	}
	if r.Deadline == "" {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "deadline is required")
	}

	deadline, err := ParseDate(r.Deadline)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "deadline must be YYYY-MM-DD or RFC 3339")
	}
	return deadline, nil
}

func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) (*time.Time, error) {
	if r.Title != nil && *r.Title == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "title must not be empty")
	}
	if r.Description != nil && *r.Description == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "description must not be empty")
	}
	if r.Deadline == nil {
		return nil, nil
	}

	deadline, err := ParseDate(*r.Deadline)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "deadline must be YYYY-MM-DD or RFC 3339")
	}
	return &deadline, nil
}

// ParseDate accepts a calendar date or a full RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
