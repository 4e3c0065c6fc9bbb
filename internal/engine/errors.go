package engine

import "errors"

// ErrInvalidDate is returned when a date string does not parse as
// YYYY-MM-DD or when the start date is not strictly before the end date.
// It is a caller input error; the operation aborts with no writes.
var ErrInvalidDate = errors.New("invalid date")

// ErrInvalidGuestCount is returned when the booking payload carries a
// guest count below 1. Like ErrInvalidDate it is reported to the caller
// rather than silently corrected.
var ErrInvalidGuestCount = errors.New("invalid guest count")

// ErrRoomNotFree is returned when a specific room was requested but an
// existing reservation overlaps the range.
var ErrRoomNotFree = errors.New("room not free")
