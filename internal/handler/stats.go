package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// CountGroups handles GET /count. It returns the total number of
// groups.
func (h *GroupHandler) CountGroups(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	n, err := h.Groups.Count(ctx)
	if err != nil {
		h.Log.Error("count groups", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count groups"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

// UserSummary handles GET /users/:id/summary. It aggregates activity
// counters for a user: groups joined, upcoming meetings among them and
// the number of distinct active users service-wide.
func (h *GroupHandler) UserSummary(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Attendees.SummaryForUser(ctx, userID)
	if err != nil {
		h.Log.Error("user summary", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load summary"})
	}
	return c.JSON(http.StatusOK, s)
}
