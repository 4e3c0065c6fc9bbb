package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cbarkinozer/hotel-reservation-engine/internal/model"
)

// RoomRepo provides access to the rooms and room_types tables. Rooms are
// written only during bootstrap; afterwards the only mutable column is the
// is_available hint, which the engine refreshes inside the same
// transaction as every reservation mutation.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying handle so callers can begin transactions that
// span repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// Count returns the number of rooms in the inventory. The seeder uses it
// to refuse re-bootstrapping a populated store.
func (r *RoomRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n)
	return n, err
}

// UpsertTypeTx records a room type and its total count. Re-inserting an
// existing type overwrites the count; both supported dialects accept the
// same REPLACE syntax.
func (r *RoomRepo) UpsertTypeTx(ctx context.Context, tx *sql.Tx, roomType string, count int) error {
	_, err := tx.ExecContext(ctx,
		`REPLACE INTO room_types (room_type, total_count) VALUES (?, ?)`,
		roomType, count)
	return err
}

// CreateTx inserts one room of the given type and returns its assigned id.
// Ids are auto-assigned, monotonically increasing and never reused.
func (r *RoomRepo) CreateTx(ctx context.Context, tx *sql.Tx, roomType string) (uint64, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO rooms (room_type) VALUES (?)`, roomType)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetTx loads a room by id within a transaction. It returns
// ErrRoomNotFound when the id is unknown.
func (r *RoomRepo) GetTx(ctx context.Context, tx *sql.Tx, roomID uint64) (*model.Room, error) {
	const q = `SELECT id, room_type, is_available FROM rooms WHERE id = ?`
	var room model.Room
	err := tx.QueryRowContext(ctx, q, roomID).Scan(&room.ID, &room.RoomType, &room.Available)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// SetAvailabilityHintTx refreshes the cached is_available flag for the
// given rooms. The hint is best effort: availability decisions always come
// from the overlap query in ReservationRepo, never from this column.
func (r *RoomRepo) SetAvailabilityHintTx(ctx context.Context, tx *sql.Tx, roomIDs []uint64, available bool) error {
	for _, id := range roomIDs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE rooms SET is_available = ? WHERE id = ?`, available, id); err != nil {
			return err
		}
	}
	return nil
}

// ListTypes returns all seeded room types ordered by name.
func (r *RoomRepo) ListTypes(ctx context.Context) ([]model.RoomType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT room_type, total_count FROM room_types ORDER BY room_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	types := make([]model.RoomType, 0)
	for rows.Next() {
		var t model.RoomType
		if err := rows.Scan(&t.Name, &t.TotalCount); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
