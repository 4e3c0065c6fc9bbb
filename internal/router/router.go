// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cbarkinozer/hotel-reservation-engine/internal/handler"
)

// RegisterRoutes registers the health check plus all v1 endpoints on the
// provided Echo instance. The caller passes any middleware (caller
// identity, rate limiting) to apply to the v1 group; the health check
// stays outside so probes are never throttled.
func RegisterRoutes(e *echo.Echo, res *handler.ReservationHandler, ses *handler.SessionHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1", mw...)

	// Reservation operations. Reserve endpoints are the only calls that
	// guarantee a room; the free listing is advisory.
	v1.POST("/reservations", res.ReserveByType)
	v1.POST("/rooms/:id/reservations", res.ReserveByID)
	v1.DELETE("/rooms/:id/reservation", res.Cancel)
	v1.GET("/rooms/free", res.ListFreeRooms)
	v1.GET("/rooms/types", res.ListRoomTypes)

	// Expiry sweep, intended for a scheduler or an operator.
	v1.POST("/maintenance/release-past", res.ReleasePast)

	// Per-caller booking drafts for conversational frontends.
	v1.GET("/sessions/:id/draft", ses.GetDraft)
	v1.PUT("/sessions/:id/draft", ses.SaveDraft)
	v1.DELETE("/sessions/:id/draft", ses.ClearDraft)
	v1.POST("/sessions/:id/confirm", ses.Confirm)
}
