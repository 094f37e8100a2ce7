package validators

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	dto "task-market.com/task-market/internal/data_models"
)

func ValidateCreateBidRequest(r *dto.CreateBidRequest) (time.Time, error) {
	if r.TaskID == "" {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "task_id is required")
	}
	if r.CoverLetter == "" {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "cover_letter is required")
	}
	if r.ProposedDeadline == "" {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "proposed_deadline is required")
	}

	deadline, err := ParseDate(r.ProposedDeadline)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "proposed_deadline must be YYYY-MM-DD or RFC 3339")
	}
	return deadline, nil
}

func ValidateUpdateBidRequest(r *dto.UpdateBidRequest) (*time.Time, error) {
	if r.CoverLetter != nil && *r.CoverLetter == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "cover_letter must not be empty")
	}
	if r.ProposedDeadline == nil {
		return nil, nil
	}

	deadline, err := ParseDate(*r.ProposedDeadline)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "proposed_deadline must be YYYY-MM-DD or RFC 3339")
	}
	return &deadline, nil
}
