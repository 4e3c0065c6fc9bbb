package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cbarkinozer/hotel-reservation-engine/internal/engine"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/model"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/queue"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/repository"
	queue_publisher "github.com/cbarkinozer/hotel-reservation-engine/internal/service"
)

// ReservationHandler exposes the engine's reserve, cancel, release and
// availability operations over HTTP. The handler maps the engine's typed
// errors onto HTTP codes; no-availability is a 409 business outcome, never
// a 5xx, while unexpected storage failures are a 500 so callers can't
// confuse "no rooms" with "storage broken".
type ReservationHandler struct {
	Engine *engine.Engine
}

// NewReservationHandler constructs a ReservationHandler. The engine must
// be non-nil.
func NewReservationHandler(e *engine.Engine) *ReservationHandler {
	if e == nil {
		panic("nil engine passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: e}
}

// reserveRequest is the body accepted by both reserve endpoints. The
// booking fields are stored verbatim; only room type and the date range
// participate in conflict detection.
type reserveRequest struct {
	RoomType string `json:"room_type"`
	model.Booking
}

// ReserveByType handles POST /v1/reservations. It validates the date
// range, finds the lowest-id free room of the requested type and books it
// atomically. Responds 201 with the room id and confirmation message,
// 400 on malformed dates, 409 when no room is available.
func (h *ReservationHandler) ReserveByType(c echo.Context) error {
	var body reserveRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	roomType := body.RoomType
	if roomType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type is required"})
	}
	ctx := c.Request().Context()
	res, msg, err := h.Engine.ReserveByType(ctx, roomType, body.StartDate, body.EndDate, body.Booking)
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
	publishEvent(queue.ReservationEvent{
		Type:          queue.EventConfirmed,
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		RoomType:      roomType,
		StartDate:     body.StartDate,
		EndDate:       body.EndDate,
		GuestName:     body.FullName,
	})
	return c.JSON(http.StatusCreated, echo.Map{"room_id": res.RoomID, "message": msg})
}

// ReserveByID handles POST /v1/rooms/:id/reservations: same guarantees as
// ReserveByType, scoped to one room. Responds 404 for an unknown room and
// 409 when the room is occupied for the range.
func (h *ReservationHandler) ReserveByID(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || roomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var body reserveRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	res, msg, err := h.Engine.ReserveByID(ctx, roomID, body.StartDate, body.EndDate, body.Booking)
	switch {
	case errors.Is(err, engine.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date format. Please use YYYY-MM-DD."})
	case errors.Is(err, engine.ErrInvalidGuestCount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Guest count must be at least 1."})
	case errors.Is(err, repository.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, engine.ErrRoomNotFree):
		return c.JSON(http.StatusConflict, echo.Map{"error": "Room is not available for the selected dates."})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage failure"})
	}
	publishEvent(queue.ReservationEvent{
		Type:          queue.EventConfirmed,
		ReservationID: res.ID,
		RoomID:        roomID,
		StartDate:     body.StartDate,
		EndDate:       body.EndDate,
		GuestName:     body.FullName,
	})
	return c.JSON(http.StatusCreated, echo.Map{"room_id": roomID, "message": msg})
}

// Cancel handles DELETE /v1/rooms/:id/reservation. Without query
// parameters it cancels the room's active reservation; with start_date and
// end_date it cancels exactly that range.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || roomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx := c.Request().Context()
	start := c.QueryParam("start_date")
	end := c.QueryParam("end_date")

	var msg string
	if start != "" || end != "" {
		msg, err = h.Engine.CancelRange(ctx, roomID, start, end)
	} else {
		msg, err = h.Engine.Cancel(ctx, roomID)
	}
	switch {
	case errors.Is(err, engine.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date format. Please use YYYY-MM-DD."})
	case errors.Is(err, repository.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No reservation found for this room."})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage failure"})
	}
	publishEvent(queue.ReservationEvent{
		Type:      queue.EventCanceled,
		RoomID:    roomID,
		StartDate: start,
		EndDate:   end,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// ReleasePast handles POST /v1/maintenance/release-past. The body may
// carry {"today":"YYYY-MM-DD"}; when absent the current UTC date is used.
// Responds with the number of reservations released; running it again
// immediately releases zero.
func (h *ReservationHandler) ReleasePast(c echo.Context) error {
	var body struct {
		Today string `json:"today"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	today := body.Today
	if today == "" {
		today = time.Now().UTC().Format(model.DateLayout)
	}
	released, err := h.Engine.ReleasePast(c.Request().Context(), today)
	switch {
	case errors.Is(err, engine.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date format. Please use YYYY-MM-DD."})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage failure"})
	}
	return c.JSON(http.StatusOK, echo.Map{"released": released})
}

// ListFreeRooms handles GET /v1/rooms/free. Query parameters: room_type,
// start_date, end_date. An empty list is a normal answer, and the answer
// is advisory: only the reserve endpoints guarantee a room.
func (h *ReservationHandler) ListFreeRooms(c echo.Context) error {
	roomType := c.QueryParam("room_type")
	if roomType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type is required"})
	}
	ids, err := h.Engine.ListFreeRooms(c.Request().Context(),
		roomType, c.QueryParam("start_date"), c.QueryParam("end_date"))
	switch {
	case errors.Is(err, engine.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date format. Please use YYYY-MM-DD."})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage failure"})
	}
	return c.JSON(http.StatusOK, echo.Map{"room_ids": ids})
}

// ListRoomTypes handles GET /v1/rooms/types. It returns the seeded
// inventory: every room type with the number of rooms it was bootstrapped
// with.
func (h *ReservationHandler) ListRoomTypes(c echo.Context) error {
	types, err := h.Engine.Rooms().ListTypes(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage failure"})
	}
	return c.JSON(http.StatusOK, echo.Map{"room_types": types})
}

// publishEvent sends a reservation event to the broker on a best-effort
// basis. The reservation already committed; a delivery failure is logged
// inside the publisher and otherwise ignored.
func publishEvent(ev queue.ReservationEvent) {
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue_publisher.PublishReservationEvent(ctx, ev); err != nil {
			log.Printf("reservation event not published: %v", err)
		}
	}()
}
