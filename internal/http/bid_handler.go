package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-market.com/task-market/internal/data_models"
	middleware "task-market.com/task-market/internal/http/middlewares"
	"task-market.com/task-market/internal/http/validators"
	"task-market.com/task-market/internal/services"
)

func (h *Handler) CreateBid(c echo.Context) error {
	var req dto.CreateBidRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	deadline, err := validators.ValidateCreateBidRequest(&req)
	if err != nil {
		return err
	}

	bid, err := h.market.CreateBid(c.Request().Context(), middleware.ActorFrom(c), services.BidDraft{
		TaskID:           req.TaskID,
		Amount:           req.Amount,
		ProposedDeadline: deadline,
		CoverLetter:      req.CoverLetter,
	})
	if err != nil {
		return toHTTPError(c, h.logger, "create_bid", err)
	}

	return c.JSON(http.StatusCreated, bid)
}

func (h *Handler) GetBid(c echo.Context) error {
	bid, err := h.market.GetBid(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(c, h.logger, "get_bid", err)
	}

	return c.JSON(http.StatusOK, bid)
}

func (h *Handler) UpdateBid(c echo.Context) error {
	var req dto.UpdateBidRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	deadline, err := validators.ValidateUpdateBidRequest(&req)
	if err != nil {
		return err
	}

	bid, err := h.market.UpdateBid(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), services.BidPatch{
		Amount:           req.Amount,
		ProposedDeadline: deadline,
		CoverLetter:      req.CoverLetter,
		Version:          req.Version,
	})
	if err != nil {
		return toHTTPError(c, h.logger, "update_bid", err)
	}

	return c.JSON(http.StatusOK, bid)
}

func (h *Handler) AcceptBid(c echo.Context) error {
	result, err := h.market.AcceptBid(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return toHTTPError(c, h.logger, "accept_bid", err)
	}

	return c.JSON(http.StatusOK, result)
}

// ListTaskBids serves both /tasks/:id/bids and /bids/task/:taskId.
func (h *Handler) ListTaskBids(c echo.Context) error {
	taskID := c.Param("id")
	if taskID == "" {
		taskID = c.Param("taskId")
	}

	bids, err := h.market.ListBidsForTask(c.Request().Context(), taskID)
	if err != nil {
		return toHTTPError(c, h.logger, "list_task_bids", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(bids),
		"bids":  bids,
	})
}

func (h *Handler) MyBids(c echo.Context) error {
	actor := middleware.ActorFrom(c)

	bids, err := h.market.ListBidsByBidder(c.Request().Context(), actor.ID, c.QueryParam("status"))
	if err != nil {
		return toHTTPError(c, h.logger, "my_bids", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(bids),
		"bids":  bids,
	})
}
