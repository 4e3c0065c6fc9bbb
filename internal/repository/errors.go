// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// engine and handlers to distinguish expected outcomes from storage
// failures. ErrNoAvailability in particular is a normal business result,
// not a fault: it means every room of the requested type is taken for the
// requested dates.
package repository

import "errors"

// ErrRoomNotFound is returned when an operation references a room id that
// does not exist in the inventory.
var ErrRoomNotFound = errors.New("room not found")

// ErrReservationNotFound is returned when a cancellation targets a room
// that has no matching reservation.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrNoAvailability is returned when no room of the requested type is free
// for the requested date range.
var ErrNoAvailability = errors.New("no availability")
