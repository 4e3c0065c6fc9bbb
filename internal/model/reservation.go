package model

import "time"

// DateLayout is the only date format the engine accepts or emits. Dates
// carry no time component; a range is the half-open interval
// [StartDate, EndDate), so a reservation ending on a date and another
// starting on that same date do not conflict.
const DateLayout = "2006-01-02"

// Reservation records a booking of one room for a date range. Only RoomID,
// StartDate and EndDate participate in conflict detection; the guest
// fields are an opaque payload stored on behalf of the caller.
//
// A reservation is either present (active, current or future) or absent:
// cancellation and the past-reservation sweep both delete the row.
type Reservation struct {
	ID               uint64    `json:"id"`                // reservations.id
	RoomID           uint64    `json:"room_id"`           // reservations.room_id
	StartDate        string    `json:"start_date"`        // inclusive, YYYY-MM-DD
	EndDate          string    `json:"end_date"`          // exclusive, YYYY-MM-DD
	FullName         string    `json:"full_name"`         // guest payload
	PhoneNumber      string    `json:"phone_number"`      // guest payload
	Email            string    `json:"email"`             // guest payload
	GuestCount       int       `json:"guest_count"`       // guest payload
	PaymentMethod    string    `json:"payment_method"`    // guest payload
	IncludeBreakfast bool      `json:"include_breakfast"` // guest payload
	Note             string    `json:"note"`              // guest payload
	CreatedAt        time.Time `json:"created_at"`        // reservations.created_at
}

// Overlaps reports whether two half-open date ranges conflict. Both ranges
// must already be valid YYYY-MM-DD strings with start < end; for that
// fixed-width format string comparison equals date comparison.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}
