package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	dto "task-market.com/task-market/internal/data_models"
	middleware "task-market.com/task-market/internal/http/middlewares"
	"task-market.com/task-market/internal/http/validators"
	"task-market.com/task-market/internal/services"
)

type Handler struct {
	market *services.Marketplace
	logger *slog.Logger
}

func NewHandler(market *services.Marketplace, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		market: market,
		logger: logger,
	}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	deadline, err := validators.ValidateCreateTaskRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.market.CreateTask(c.Request().Context(), middleware.ActorFrom(c), services.TaskDraft{
		Title:          req.Title,
		Description:    req.Description,
		Budget:         req.Budget,
		Deadline:       deadline,
		Category:       req.Category,
		RequiredSkills: req.RequiredSkills,
		Attachments:    req.Attachments,
	})
	if err != nil {
		return toHTTPError(c, h.logger, "create_task", err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.market.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(c, h.logger, "get_task", err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return err
	}

	tasks, err := h.market.ListTasks(c.Request().Context(), services.TaskListFilter{
		Status:       c.QueryParam("status"),
		Category:     c.QueryParam("category"),
		OwnerID:      c.QueryParam("owner_id"),
		FreelancerID: c.QueryParam("freelancer_id"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return toHTTPError(c, h.logger, "list_tasks", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) UpdateTask(c echo.Context) error {
	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	deadline, err := validators.ValidateUpdateTaskRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.market.UpdateTask(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), services.TaskPatch{
		Title:          req.Title,
		Description:    req.Description,
		Budget:         req.Budget,
		Deadline:       deadline,
		Category:       req.Category,
		RequiredSkills: req.RequiredSkills,
		Attachments:    req.Attachments,
		Version:        req.Version,
	})
	if err != nil {
		return toHTTPError(c, h.logger, "update_task", err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.market.DeleteTask(c.Request().Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		return toHTTPError(c, h.logger, "delete_task", err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CancelTask(c echo.Context) error {
	task, err := h.market.CancelTask(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return toHTTPError(c, h.logger, "cancel_task", err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) CompleteTask(c echo.Context) error {
	task, err := h.market.CompleteTask(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return toHTTPError(c, h.logger, "complete_task", err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.market.Stats(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return toHTTPError(c, h.logger, "stats", err)
	}

	return c.JSON(http.StatusOK, stats)
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return v, nil
}
