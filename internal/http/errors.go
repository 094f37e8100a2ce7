package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "task-market.com/task-market/internal/errors"
)

// toHTTPError maps marketplace errors onto echo errors. Anything that is not
// an Exception is an infrastructure failure and is logged before surfacing
// as a 500.
func toHTTPError(c echo.Context, logger *slog.Logger, op string, err error) error {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(c.Request().Context(), "request failed",
			"op", op,
			"path", c.Path(),
			"error", err,
		)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return echo.NewHTTPError(status, echo.Map{
		"error":   string(apperrors.KindOf(err)),
		"message": err.Error(),
	})
}
