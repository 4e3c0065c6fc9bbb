package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cbarkinozer/hotel-reservation-engine/internal/model"
)

// ReservationRepo provides CRUD operations for reservations together with
// the interval queries that decide availability. Two reservations conflict
// when their half-open date ranges overlap: s1 < e2 AND s2 < e1. All date
// arguments must already be validated YYYY-MM-DD strings; the queries
// compare them as text, which for this format is the same as comparing
// dates.
//
// Methods suffixed Tx run inside a caller-supplied transaction. The engine
// wraps every check-then-write sequence in one transaction so that no
// other mutation can slip between the availability check and the insert.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// FindFreeRoomTx returns the lowest-id room of the requested type with no
// reservation overlapping [start, end). The lowest-id tie-break keeps
// outcomes deterministic. Returns ErrNoAvailability when every room of the
// type is taken.
func (r *ReservationRepo) FindFreeRoomTx(ctx context.Context, tx *sql.Tx, roomType, start, end string) (uint64, error) {
	const q = `SELECT r.id FROM rooms r
	           WHERE r.room_type = ?
	             AND NOT EXISTS (
	                 SELECT 1 FROM reservations res
	                 WHERE res.room_id = r.id
	                   AND res.start_date < ? AND ? < res.end_date
	             )
	           ORDER BY r.id
	           LIMIT 1`
	var id uint64
	err := tx.QueryRowContext(ctx, q, roomType, end, start).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoAvailability
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// IsRoomFreeTx reports whether the specific room has no reservation
// overlapping [start, end). It does not check that the room exists; use
// RoomRepo.GetTx for that.
func (r *ReservationRepo) IsRoomFreeTx(ctx context.Context, tx *sql.Tx, roomID uint64, start, end string) (bool, error) {
	const q = `SELECT COUNT(*) FROM reservations res
	           WHERE res.room_id = ?
	             AND res.start_date < ? AND ? < res.end_date`
	var n int
	if err := tx.QueryRowContext(ctx, q, roomID, end, start).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// IsRoomFree is the read-only variant of IsRoomFreeTx for callers outside
// a transaction. The answer is advisory: a room reported free can be taken
// before the caller acts on it.
func (r *ReservationRepo) IsRoomFree(ctx context.Context, roomID uint64, start, end string) (bool, error) {
	const q = `SELECT COUNT(*) FROM reservations res
	           WHERE res.room_id = ?
	             AND res.start_date < ? AND ? < res.end_date`
	var n int
	if err := r.db.QueryRowContext(ctx, q, roomID, end, start).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// ListFreeRooms returns the ids of all rooms of the given type that are
// free for [start, end), ascending by id. An empty slice (not an error)
// means nothing qualifies. Like IsRoomFree, the result is advisory and is
// not a reservation guarantee.
func (r *ReservationRepo) ListFreeRooms(ctx context.Context, roomType, start, end string) ([]uint64, error) {
	const q = `SELECT r.id FROM rooms r
	           WHERE r.room_type = ?
	             AND NOT EXISTS (
	                 SELECT 1 FROM reservations res
	                 WHERE res.room_id = r.id
	                   AND res.start_date < ? AND ? < res.end_date
	             )
	           ORDER BY r.id`
	rows, err := r.db.QueryContext(ctx, q, roomType, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateTx inserts a new reservation and populates the generated id on the
// provided record. The caller must have verified availability in the same
// transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (room_id, start_date, end_date, full_name, phone_number, email,
	            guest_count, payment_method, include_breakfast, note)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.RoomID, res.StartDate, res.EndDate, res.FullName, res.PhoneNumber,
		res.Email, res.GuestCount, res.PaymentMethod, res.IncludeBreakfast, res.Note)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// ActiveByRoomTx returns the reservation currently tied to a room. When a
// room holds several reservations, the one with the latest start date is
// considered active; callers that need an exact match must cancel by
// range instead. Returns ErrReservationNotFound when the room has none.
func (r *ReservationRepo) ActiveByRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) (*model.Reservation, error) {
	const q = `SELECT id, room_id, start_date, end_date FROM reservations
	           WHERE room_id = ?
	           ORDER BY start_date DESC, id DESC
	           LIMIT 1`
	var res model.Reservation
	err := tx.QueryRowContext(ctx, q, roomID).Scan(&res.ID, &res.RoomID, &res.StartDate, &res.EndDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteTx removes a single reservation by id.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, reservationID)
	return err
}

// DeleteByRoomRangeTx removes the reservation on the given room with
// exactly the given date range. Returns ErrReservationNotFound when no
// such reservation exists.
func (r *ReservationRepo) DeleteByRoomRangeTx(ctx context.Context, tx *sql.Tx, roomID uint64, start, end string) error {
	result, err := tx.ExecContext(ctx,
		`DELETE FROM reservations WHERE room_id = ? AND start_date = ? AND end_date = ?`,
		roomID, start, end)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// DeleteEndedTx removes every reservation whose end date is strictly
// before today. It returns the number of reservations deleted and the ids
// of the rooms they occupied, so the caller can refresh availability
// hints. Calling it again immediately is a no-op.
func (r *ReservationRepo) DeleteEndedTx(ctx context.Context, tx *sql.Tx, today string) (int, []uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT DISTINCT room_id FROM reservations WHERE end_date < ?`, today)
	if err != nil {
		return 0, nil, err
	}
	var roomIDs []uint64
	for rows.Next() {
		var id uint64
		if scanErr := rows.Scan(&id); scanErr != nil {
			rows.Close()
			return 0, nil, scanErr
		}
		roomIDs = append(roomIDs, id)
	}
	if err = rows.Close(); err != nil {
		return 0, nil, err
	}
	if len(roomIDs) == 0 {
		return 0, []uint64{}, nil
	}
	result, err := tx.ExecContext(ctx,
		`DELETE FROM reservations WHERE end_date < ?`, today)
	if err != nil {
		return 0, nil, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, nil, err
	}
	return int(n), roomIDs, nil
}

// CountByRoomTx returns how many reservations remain on a room. The engine
// uses it after deletions to decide the value of the availability hint.
func (r *ReservationRepo) CountByRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE room_id = ?`, roomID).Scan(&n)
	return n, err
}

// ListByRoom returns all reservations on a room ordered by start date. It
// exists for inspection and tests; conflict detection never needs it.
func (r *ReservationRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, room_id, start_date, end_date, full_name, phone_number,
	                  email, guest_count, payment_method, include_breakfast, note
	           FROM reservations WHERE room_id = ? ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.RoomID, &res.StartDate, &res.EndDate,
			&res.FullName, &res.PhoneNumber, &res.Email, &res.GuestCount,
			&res.PaymentMethod, &res.IncludeBreakfast, &res.Note); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
