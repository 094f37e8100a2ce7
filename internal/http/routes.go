package http

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	middleware "task-market.com/task-market/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int, logger *slog.Logger) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	e.GET("/health", h.Health)

	api := e.Group("/api/v1", middleware.Identity(), middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	tasks := api.Group("/tasks")
	tasks.GET("", h.ListTasks)
	tasks.POST("", h.CreateTask)
	tasks.GET("/:id", h.GetTask)
	tasks.PUT("/:id", h.UpdateTask)
	tasks.DELETE("/:id", h.DeleteTask)
	tasks.POST("/:id/cancel", h.CancelTask)
	tasks.POST("/:id/complete", h.CompleteTask)
	tasks.GET("/:id/bids", h.ListTaskBids)

	bids := api.Group("/bids")
	bids.POST("", h.CreateBid)
	bids.GET("/task/:taskId", h.ListTaskBids)
	bids.GET("/:id", h.GetBid)
	bids.PUT("/:id", h.UpdateBid)
	bids.POST("/:id/accept", h.AcceptBid)

	me := api.Group("/me")
	me.GET("/bids", h.MyBids)
	me.GET("/stats", h.Stats)
}
