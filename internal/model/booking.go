package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Booking is the guest-facing request payload for a reservation. It is
// collected field by field by conversational callers, kept as a session
// draft, and validated as a whole before the engine is invoked. The
// validate tags carry the structural rules; Validate adds the checks that
// tags cannot express (date order) and translates failures into messages
// fit for an end user.
type Booking struct {
	FullName         string `json:"full_name" validate:"required"`
	PhoneNumber      string `json:"phone_number" validate:"required,number,min=10,max=15"`
	Email            string `json:"email" validate:"required,email"`
	StartDate        string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate          string `json:"end_date" validate:"required,datetime=2006-01-02"`
	GuestCount       int    `json:"guest_count" validate:"required,min=1"`
	RoomType         string `json:"room_type" validate:"required,oneof=single double suite"`
	NumberOfRooms    int    `json:"number_of_rooms" validate:"required,min=1"`
	PaymentMethod    string `json:"payment_method" validate:"required"`
	IncludeBreakfast bool   `json:"include_breakfast"`
	Note             string `json:"note"`
}

// bookingMessages maps a failed field/tag pair to a human-readable
// explanation. Anything not listed falls through to a generic message.
var bookingMessages = map[string]string{
	"PhoneNumber":   "Phone number must be between 10 and 15 digits.",
	"Email":         "Invalid email format. Are you sure you entered email correctly?",
	"StartDate":     "Dates must be in YYYY-MM-DD format. Are you sure you entered the start and end date?",
	"EndDate":       "Dates must be in YYYY-MM-DD format. Are you sure you entered the start and end date?",
	"GuestCount":    "Guest count must be at least 1.",
	"RoomType":      "Room type can be either single, double, or suite.",
	"NumberOfRooms": "Number of rooms must be at least 1.",
}

// Validate checks the booking with the provided validator and returns a
// guest-readable message describing the first problem found. A nil error
// means the booking is complete and bookable.
func (b *Booking) Validate(v *validator.Validate) error {
	if err := v.Struct(b); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			if msg, ok := bookingMessages[fe.Field()]; ok {
				return fmt.Errorf("%s", msg)
			}
			return fmt.Errorf("The field %q is missing or invalid.", fe.Field())
		}
		return err
	}
	start, err1 := time.Parse(DateLayout, b.StartDate)
	end, err2 := time.Parse(DateLayout, b.EndDate)
	if err1 != nil || err2 != nil {
		return fmt.Errorf("%s", bookingMessages["StartDate"])
	}
	if !start.Before(end) {
		return fmt.Errorf("End date must be after start date.")
	}
	return nil
}
