// Package queue defines message payloads exchanged over the message broker.
package queue

// Event type values carried in ReservationEvent.Type.
const (
	EventConfirmed = "confirmed"
	EventCanceled  = "canceled"
)

// ReservationEvent is published when a reservation is confirmed or
// canceled. It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary store.
type ReservationEvent struct {
	Type          string `json:"type"` // confirmed | canceled
	ReservationID uint64 `json:"reservation_id,omitempty"`
	RoomID        uint64 `json:"room_id"`
	RoomType      string `json:"room_type,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	GuestName     string `json:"guest_name,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}
