// Package handler defines HTTP handlers for the study group API. All
// user ids are caller-supplied and trusted as-is; there is no local
// account system. Handlers validate payloads, run the repository
// operations (inside a transaction when more than one statement must be
// atomic) and map repository sentinels onto HTTP status codes. Internal
// error detail is logged server-side and never echoed to clients.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-group-scheduler/internal/metrics"
	"github.com/iliyamo/study-group-scheduler/internal/model"
	"github.com/iliyamo/study-group-scheduler/internal/repository"
)

const dbTimeout = 5 * time.Second

// GroupHandler bundles the repositories used by the group lifecycle and
// membership endpoints.
type GroupHandler struct {
	Groups    *repository.GroupRepo
	Locations *repository.LocationRepo
	Attendees *repository.AttendeeRepo
	Metrics   *metrics.Collector
	Log       *slog.Logger
}

// NewGroupHandler constructs a GroupHandler and panics if any dependency
// is nil.
func NewGroupHandler(groups *repository.GroupRepo, locations *repository.LocationRepo, attendees *repository.AttendeeRepo, m *metrics.Collector, log *slog.Logger) *GroupHandler {
	if groups == nil || locations == nil || attendees == nil || m == nil || log == nil {
		panic("nil dependency passed to NewGroupHandler")
	}
	return &GroupHandler{
		Groups:    groups,
		Locations: locations,
		Attendees: attendees,
		Metrics:   m,
		Log:       log,
	}
}

// ----- DTOs -----

type createGroupReq struct {
	OwnerID     int64   `json:"owner_id" validate:"required,min=1"`
	Name        string  `json:"name" validate:"required,max=48"`
	CourseCode  string  `json:"course_code" validate:"required,max=12"`
	Description *string `json:"description" validate:"omitempty,max=250"`
	MaxMembers  int     `json:"max_members" validate:"required,min=1,max=100"`
	MeetingDay  string  `json:"meeting_day" validate:"required,max=20"`
	MeetingTime string  `json:"meeting_time" validate:"required,max=20"`
	Building    string  `json:"building" validate:"required,max=100"`
	Room        string  `json:"room" validate:"required,max=20"`
	NextMeeting string  `json:"next_meeting" validate:"required"`
}

type deleteGroupReq struct {
	UserID  int64 `json:"user_id" validate:"required,min=1,max=100"`
	GroupID int64 `json:"group_id" validate:"required,min=1"`
}

// CreateGroup handles POST /items/create/. It resolves the building to
// a location row (creating it when absent), inserts the group and the
// founding attendee row for the organizer, all in one transaction.
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	var req createGroupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tx, err := h.Groups.DB().BeginTx(ctx, nil)
	if err != nil {
		h.Log.Error("create group: begin tx", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create group"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	locationID, err := h.Locations.ResolveOrCreateTx(ctx, tx, req.Building)
	if err != nil {
		h.Log.Error("create group: resolve location", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create group"})
	}

	g := model.Group{
		OrganizerID: req.OwnerID,
		Name:        req.Name,
		CourseCode:  req.CourseCode,
		Description: req.Description,
		LocationID:  locationID,
		Room:        req.Room,
		MeetingDay:  req.MeetingDay,
		MeetingTime: req.MeetingTime,
		MaxMembers:  req.MaxMembers,
		NextMeeting: req.NextMeeting,
	}
	if err := h.Groups.CreateTx(ctx, tx, &g); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reference in request"})
		}
		h.Log.Error("create group: insert", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create group"})
	}

	// The organizer is automatically a member of their own group.
	if err := h.Attendees.JoinTx(ctx, tx, g.ID, req.OwnerID); err != nil {
		h.Log.Error("create group: founding attendee", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create group"})
	}

	if err := tx.Commit(); err != nil {
		h.Log.Error("create group: commit", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create group"})
	}
	committed = true
	h.Metrics.RecordGroupCreated()

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      g.ID,
		"message": "Group Created Successfully!",
	})
}

// DeleteGroup handles POST /items/delete/. Only the organizer may
// delete a group; the ownership check runs inside the same transaction
// as the delete so it cannot be bypassed by a stale read. Attendee rows
// are removed by the cascade constraint.
func (h *GroupHandler) DeleteGroup(c echo.Context) error {
	var req deleteGroupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tx, err := h.Groups.DB().BeginTx(ctx, nil)
	if err != nil {
		h.Log.Error("delete group: begin tx", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete group"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Groups.DeleteByIDAndOwnerTx(ctx, tx, req.GroupID, req.UserID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only the organizer can delete this group"})
		default:
			h.Log.Error("delete group", slog.Any("err", err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete group"})
		}
	}

	if err := tx.Commit(); err != nil {
		h.Log.Error("delete group: commit", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete group"})
	}
	committed = true
	h.Metrics.RecordGroupDeleted()

	return c.JSON(http.StatusOK, echo.Map{
		"id":      req.GroupID,
		"message": "Group Deleted Successfully!",
	})
}

// GetGroup handles GET /items/:item_id. It returns the full annotated
// record for one group. An optional user_id query parameter lets the
// caller compute has_joined for themselves.
func (h *GroupHandler) GetGroup(c echo.Context) error {
	groupID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil || groupID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid group id"})
	}
	var userID int64
	if raw := c.QueryParam("user_id"); raw != "" {
		userID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	row, err := h.Groups.GetDetail(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
		}
		h.Log.Error("get group", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load group"})
	}
	return c.JSON(http.StatusOK, row)
}
