package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/cbarkinozer/hotel-reservation-engine/internal/engine"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/middleware"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/model"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/queue"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/repository"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/session"
)

// SessionHandler manages per-caller booking drafts. A conversational
// caller fills in the draft over several requests, then confirms it; on
// confirmation the draft is validated as a whole and handed to the engine.
// Drafts belong to the caller identity resolved by the CallerIdentity
// middleware (or to an explicit :id path segment for trusted frontends
// that manage their own identities).
type SessionHandler struct {
	Sessions *session.Store
	Engine   *engine.Engine
	Validate *validator.Validate
}

// NewSessionHandler constructs a SessionHandler. All dependencies must be
// non-nil.
func NewSessionHandler(store *session.Store, e *engine.Engine, v *validator.Validate) *SessionHandler {
	if store == nil || e == nil || v == nil {
		panic("nil dependency passed to NewSessionHandler")
	}
	return &SessionHandler{Sessions: store, Engine: e, Validate: v}
}

// callerFor prefers the :id path segment; absent that, the identity from
// the request context.
func callerFor(c echo.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return middleware.CallerID(c)
}

// SaveDraft handles PUT /v1/sessions/:id/draft. The body is a partial or
// complete booking; it replaces any existing draft and resets the TTL.
// Drafts are not validated here so callers can save incomplete state.
func (h *SessionHandler) SaveDraft(c echo.Context) error {
	var draft model.Booking
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Sessions.SaveDraft(c.Request().Context(), callerFor(c), &draft); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save draft"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "draft saved"})
}

// GetDraft handles GET /v1/sessions/:id/draft.
func (h *SessionHandler) GetDraft(c echo.Context) error {
	draft, err := h.Sessions.GetDraft(c.Request().Context(), callerFor(c))
	if errors.Is(err, session.ErrNoDraft) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no draft"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load draft"})
	}
	return c.JSON(http.StatusOK, draft)
}

// ClearDraft handles DELETE /v1/sessions/:id/draft.
func (h *SessionHandler) ClearDraft(c echo.Context) error {
	if err := h.Sessions.ClearDraft(c.Request().Context(), callerFor(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear draft"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Confirm handles POST /v1/sessions/:id/confirm. It validates the stored
// draft against the booking rules, reserves a room of the drafted type and
// clears the draft on success. Validation failures return the
// guest-readable message from the booking rules.
func (h *SessionHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()
	caller := callerFor(c)

	draft, err := h.Sessions.GetDraft(ctx, caller)
	if errors.Is(err, session.ErrNoDraft) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no draft"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load draft"})
	}
	if err := draft.Validate(h.Validate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	res, msg, err := h.Engine.ReserveByType(ctx, draft.RoomType, draft.StartDate, draft.EndDate, *draft)
	switch {
	case errors.Is(err, engine.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date format. Please use YYYY-MM-DD."})
	case errors.Is(err, engine.ErrInvalidGuestCount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Guest count must be at least 1."})
	case errors.Is(err, repository.ErrNoAvailability):
		return c.JSON(http.StatusConflict, echo.Map{"error": "No available rooms for the selected type and dates."})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage failure"})
	}

	if err := h.Sessions.ClearDraft(ctx, caller); err != nil {
		// The reservation stands; the stale draft only lingers until TTL.
		c.Logger().Warnf("clear draft after confirm: %v", err)
	}
	publishEvent(queue.ReservationEvent{
		Type:          queue.EventConfirmed,
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		RoomType:      draft.RoomType,
		StartDate:     draft.StartDate,
		EndDate:       draft.EndDate,
		GuestName:     draft.FullName,
	})
	return c.JSON(http.StatusCreated, echo.Map{"room_id": res.RoomID, "message": msg})
}
