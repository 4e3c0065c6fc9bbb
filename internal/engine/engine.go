// Package engine implements the room inventory and reservation engine: it
// answers availability queries over a fixed pool of rooms and atomically
// creates, cancels and expires reservations against them.
//
// Every mutating operation runs under a store-wide mutex and a single
// database transaction, so a check-then-write sequence (find a free room,
// then insert the reservation) can never interleave with another mutation.
// Read-only queries bypass the lock; their answers are advisory.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/cbarkinozer/hotel-reservation-engine/internal/model"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/repository"
)

// Engine orchestrates reservation operations against the store. It is the
// only component permitted to mutate reservation rows. Construct it with
// New; the zero value is not usable.
type Engine struct {
	db           *sql.DB
	rooms        *repository.RoomRepo
	reservations *repository.ReservationRepo

	// mu serializes all mutating operations. Combined with one
	// transaction per operation this gives the single-writer discipline
	// the interval invariant depends on.
	mu sync.Mutex
}

// New returns an Engine backed by the given database handle.
func New(db *sql.DB) *Engine {
	return &Engine{
		db:           db,
		rooms:        repository.NewRoomRepo(db),
		reservations: repository.NewReservationRepo(db),
	}
}

// Rooms exposes the room repository for seeding and inspection.
func (e *Engine) Rooms() *repository.RoomRepo { return e.rooms }

// parseRange validates that both bounds are well-formed YYYY-MM-DD dates
// and that start is strictly before end. Dates are accepted only in this
// exact format; callers must not pre-parse into other representations.
func parseRange(start, end string) error {
	s, err := time.Parse(model.DateLayout, start)
	if err != nil {
		return ErrInvalidDate
	}
	t, err := time.Parse(model.DateLayout, end)
	if err != nil {
		return ErrInvalidDate
	}
	if !s.Before(t) {
		return ErrInvalidDate
	}
	return nil
}

// ReserveByType finds the lowest-id free room of the requested type for
// [start, end), inserts the reservation and returns it with a
// human-readable confirmation. Returns ErrInvalidDate,
// ErrInvalidGuestCount, repository.ErrNoAvailability, or a wrapped
// storage error; on any error nothing is written.
func (e *Engine) ReserveByType(ctx context.Context, roomType, start, end string, booking model.Booking) (*model.Reservation, string, error) {
	if err := parseRange(start, end); err != nil {
		return nil, "", err
	}
	if booking.GuestCount < 1 {
		return nil, "", ErrInvalidGuestCount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("begin reserve: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	roomID, err := e.reservations.FindFreeRoomTx(ctx, tx, roomType, start, end)
	if err != nil {
		return nil, "", err
	}
	res, err := e.insertTx(ctx, tx, roomID, start, end, booking)
	if err != nil {
		return nil, "", err
	}
	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("commit reserve: %w", err)
	}
	committed = true
	return res, fmt.Sprintf("Room %d reserved from %s to %s.", roomID, start, end), nil
}

// ReserveByID reserves one specific room for [start, end). Returns
// ErrInvalidDate, ErrInvalidGuestCount, repository.ErrRoomNotFound when
// the id is unknown, ErrRoomNotFree when an existing reservation overlaps
// the range, or a wrapped storage error.
func (e *Engine) ReserveByID(ctx context.Context, roomID uint64, start, end string, booking model.Booking) (*model.Reservation, string, error) {
	if err := parseRange(start, end); err != nil {
		return nil, "", err
	}
	if booking.GuestCount < 1 {
		return nil, "", ErrInvalidGuestCount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("begin reserve: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := e.rooms.GetTx(ctx, tx, roomID); err != nil {
		return nil, "", err
	}
	free, err := e.reservations.IsRoomFreeTx(ctx, tx, roomID, start, end)
	if err != nil {
		return nil, "", fmt.Errorf("check room %d: %w", roomID, err)
	}
	if !free {
		return nil, "", ErrRoomNotFree
	}
	res, err := e.insertTx(ctx, tx, roomID, start, end, booking)
	if err != nil {
		return nil, "", err
	}
	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("commit reserve: %w", err)
	}
	committed = true
	return res, fmt.Sprintf("Room %d reserved from %s to %s.", roomID, start, end), nil
}

// insertTx writes the reservation row and flips the room's availability
// hint, both inside the caller's transaction. The booking payload is
// stored exactly as given; the guest count was already checked at the
// operation boundary.
func (e *Engine) insertTx(ctx context.Context, tx *sql.Tx, roomID uint64, start, end string, booking model.Booking) (*model.Reservation, error) {
	res := model.Reservation{
		RoomID:           roomID,
		StartDate:        start,
		EndDate:          end,
		FullName:         booking.FullName,
		PhoneNumber:      booking.PhoneNumber,
		Email:            booking.Email,
		GuestCount:       booking.GuestCount,
		PaymentMethod:    booking.PaymentMethod,
		IncludeBreakfast: booking.IncludeBreakfast,
		Note:             booking.Note,
	}
	if err := e.reservations.CreateTx(ctx, tx, &res); err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	if err := e.rooms.SetAvailabilityHintTx(ctx, tx, []uint64{roomID}, false); err != nil {
		return nil, fmt.Errorf("update availability hint: %w", err)
	}
	return &res, nil
}

// Cancel removes the active reservation on the given room and returns it
// to the free pool. When a room carries several reservations the one with
// the latest start date is targeted; use CancelRange to pick an exact
// range. Returns repository.ErrRoomNotFound or
// repository.ErrReservationNotFound.
func (e *Engine) Cancel(ctx context.Context, roomID uint64) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin cancel: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := e.rooms.GetTx(ctx, tx, roomID); err != nil {
		return "", err
	}
	res, err := e.reservations.ActiveByRoomTx(ctx, tx, roomID)
	if err != nil {
		return "", err
	}
	if err := e.reservations.DeleteTx(ctx, tx, res.ID); err != nil {
		return "", fmt.Errorf("delete reservation %d: %w", res.ID, err)
	}
	if err := e.refreshHintTx(ctx, tx, roomID); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit cancel: %w", err)
	}
	committed = true
	return fmt.Sprintf("Reservation for Room %d has been canceled.", roomID), nil
}

// CancelRange removes the reservation on the given room with exactly the
// given date range, disambiguating rooms that hold multiple future
// reservations.
func (e *Engine) CancelRange(ctx context.Context, roomID uint64, start, end string) (string, error) {
	if err := parseRange(start, end); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin cancel: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := e.rooms.GetTx(ctx, tx, roomID); err != nil {
		return "", err
	}
	if err := e.reservations.DeleteByRoomRangeTx(ctx, tx, roomID, start, end); err != nil {
		return "", err
	}
	if err := e.refreshHintTx(ctx, tx, roomID); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit cancel: %w", err)
	}
	committed = true
	return fmt.Sprintf("Reservation for Room %d has been canceled.", roomID), nil
}

// refreshHintTx re-derives the availability hint for a room from its
// remaining reservations.
func (e *Engine) refreshHintTx(ctx context.Context, tx *sql.Tx, roomID uint64) error {
	n, err := e.reservations.CountByRoomTx(ctx, tx, roomID)
	if err != nil {
		return fmt.Errorf("count reservations for room %d: %w", roomID, err)
	}
	if err := e.rooms.SetAvailabilityHintTx(ctx, tx, []uint64{roomID}, n == 0); err != nil {
		return fmt.Errorf("update availability hint: %w", err)
	}
	return nil
}

// ReleasePast deletes every reservation whose end date is strictly before
// today and refreshes the hints of the freed rooms. It returns how many
// reservations were released. Running it twice in a row releases nothing
// the second time.
func (e *Engine) ReleasePast(ctx context.Context, today string) (int, error) {
	if _, err := time.Parse(model.DateLayout, today); err != nil {
		return 0, ErrInvalidDate
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin release: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	released, roomIDs, err := e.reservations.DeleteEndedTx(ctx, tx, today)
	if err != nil {
		return 0, fmt.Errorf("delete ended reservations: %w", err)
	}
	for _, id := range roomIDs {
		if err := e.refreshHintTx(ctx, tx, id); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit release: %w", err)
	}
	committed = true
	return released, nil
}

// ListFreeRooms returns the ids of all free rooms of a type for
// [start, end), ascending. The answer is not a reservation guarantee: a
// listed room can be taken before the caller acts on it. Only
// ReserveByType and ReserveByID are atomic.
func (e *Engine) ListFreeRooms(ctx context.Context, roomType, start, end string) ([]uint64, error) {
	if err := parseRange(start, end); err != nil {
		return nil, err
	}
	return e.reservations.ListFreeRooms(ctx, roomType, start, end)
}

// IsRoomFree reports whether a specific room is free for [start, end).
// Advisory, like ListFreeRooms.
func (e *Engine) IsRoomFree(ctx context.Context, roomID uint64, start, end string) (bool, error) {
	if err := parseRange(start, end); err != nil {
		return false, err
	}
	return e.reservations.IsRoomFree(ctx, roomID, start, end)
}
