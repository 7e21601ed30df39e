// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iliyamo/study-group-scheduler/internal/handler"
	"github.com/iliyamo/study-group-scheduler/internal/metrics"
)

// RegisterRoutes wires every endpoint onto the provided Echo instance.
// The route paths (including trailing slashes) match the original
// frontend contract, so they are kept verbatim.
func RegisterRoutes(e *echo.Echo, h *handler.GroupHandler, gatherer prometheus.Gatherer) {
	e.Use(echomw.CORS())

	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(gatherer)))

	// Group lifecycle and membership.
	items := e.Group("/items")
	items.POST("/create/", h.CreateGroup)
	items.POST("/delete/", h.DeleteGroup)
	items.POST("/join/", h.JoinGroup)
	items.POST("/leave/", h.LeaveGroup)
	items.GET("/groups/", h.ListGroups)
	items.GET("/:item_id", h.GetGroup)

	// Aggregates.
	e.GET("/count", h.CountGroups)
	e.GET("/users/:id/summary", h.UserSummary)
}
