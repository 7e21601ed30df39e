// This file implements the list/search endpoint. Searching returns all
// groups (optionally filtered); "my groups" returns only the ones the
// requesting user attends. Both annotate every row with the member
// count, the building name and a per-row has_joined flag.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// searchAll is a sentinel course_code value the frontend sends to mean
// "no filter"; it exists because the filter field enforces a minimum
// length when present.
const searchAll = "SEARCH_ALL"

type listGroupsReq struct {
	UserID     int64  `query:"user_id" validate:"required,min=1,max=100"`
	IsSearch   bool   `query:"is_search"`
	CourseCode string `query:"course_code" validate:"omitempty,min=6,max=12"`
}

// ListGroups handles GET /items/groups/.
func (h *GroupHandler) ListGroups(c echo.Context) error {
	var req listGroupsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid query parameters"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if !req.IsSearch {
		rows, err := h.Groups.ListJoined(ctx, req.UserID)
		if err != nil {
			h.Log.Error("list groups", slog.Any("err", err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list groups"})
		}
		return c.JSON(http.StatusOK, rows)
	}

	filter := req.CourseCode
	if filter == searchAll {
		filter = ""
	}
	rows, err := h.Groups.Search(ctx, req.UserID, filter)
	if err != nil {
		h.Log.Error("search groups", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to search groups"})
	}
	return c.JSON(http.StatusOK, rows)
}
