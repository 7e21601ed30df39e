// This file implements the join and leave endpoints. Join relies on the
// schema constraints to reject duplicates and dead groups instead of
// pre-checking with a read; leave checks membership explicitly because
// leaving a group you never joined is its own client error.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-group-scheduler/internal/repository"
)

type membershipReq struct {
	GroupID int64 `json:"group_id" validate:"required,min=1"`
	UserID  int64 `json:"user_id" validate:"required,min=1,max=100"`
}

// JoinGroup handles POST /items/join/. The insert and the capacity
// check run in one transaction: the constraint violation classifies
// duplicates and missing groups, and a join that would push the member
// count past max_members is rolled back.
func (h *GroupHandler) JoinGroup(c echo.Context) error {
	var req membershipReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tx, err := h.Attendees.DB().BeginTx(ctx, nil)
	if err != nil {
		h.Log.Error("join group: begin tx", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to join group"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Attendees.JoinTx(ctx, tx, req.GroupID, req.UserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyMember):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "already a member of this group"})
		case errors.Is(err, repository.ErrGroupNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
		default:
			h.Log.Error("join group: insert", slog.Any("err", err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to join group"})
		}
	}

	maxMembers, err := h.Attendees.MaxMembersTx(ctx, tx, req.GroupID)
	if err != nil {
		h.Log.Error("join group: capacity lookup", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to join group"})
	}
	count, err := h.Attendees.MemberCountTx(ctx, tx, req.GroupID)
	if err != nil {
		h.Log.Error("join group: member count", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to join group"})
	}
	if count > maxMembers {
		// Rollback via the deferred handler; the insert never becomes
		// visible.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "group is full"})
	}

	if err := tx.Commit(); err != nil {
		h.Log.Error("join group: commit", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to join group"})
	}
	committed = true
	h.Metrics.RecordJoin()

	return c.JSON(http.StatusOK, echo.Map{"message": "Joined Group Successfully!"})
}

// LeaveGroup handles POST /items/leave/.
func (h *GroupHandler) LeaveGroup(c echo.Context) error {
	var req membershipReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Attendees.Leave(ctx, req.GroupID, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotMember) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "not a member of this group"})
		}
		h.Log.Error("leave group", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to leave group"})
	}
	h.Metrics.RecordLeave()

	return c.JSON(http.StatusOK, echo.Map{"message": "Left Group Successfully!"})
}
