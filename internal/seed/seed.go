// Package seed materializes the room inventory from a declarative
// room-type/count list. Seeding happens exactly once per store lifetime,
// before any reservation traffic; re-running against a populated store is
// refused rather than silently duplicating rooms.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/cbarkinozer/hotel-reservation-engine/internal/repository"
)

// ErrAlreadySeeded is returned by Apply when the store already contains
// rooms. Wipe the store (DB_WIPE_ON_START) to re-seed from scratch.
var ErrAlreadySeeded = errors.New("inventory already seeded")

// Entry is one line of the declarative inventory: a room type and how many
// rooms of it exist.
type Entry struct {
	RoomType string `json:"room_type"`
	Count    int    `json:"count"`
}

// File mirrors the inventory file layout: {"rooms":[{"room_type":..,"count":..}]}.
type File struct {
	Rooms []Entry `json:"rooms"`
}

// Load reads and parses an inventory file.
func Load(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return f.Rooms, nil
}

// Apply inserts the room types and exactly Count rooms per valid entry, in
// entry order, inside one transaction. Room ids are auto-assigned and
// monotonic, so an inventory of {single:1, double:1, suite:2} yields rooms
// 1..4 in that order. Malformed entries (empty type or count < 1) are
// skipped with a logged warning and do not abort the load.
//
// Apply refuses a store that already has rooms.
func Apply(ctx context.Context, rooms *repository.RoomRepo, entries []Entry) (created int, err error) {
	n, err := rooms.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count rooms: %w", err)
	}
	if n > 0 {
		return 0, ErrAlreadySeeded
	}

	tx, err := rooms.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for i, entry := range entries {
		if entry.RoomType == "" || entry.Count < 1 {
			log.Printf("seed: skipping malformed entry %d (type=%q count=%d)", i, entry.RoomType, entry.Count)
			continue
		}
		if err := rooms.UpsertTypeTx(ctx, tx, entry.RoomType, entry.Count); err != nil {
			return 0, fmt.Errorf("insert room type %q: %w", entry.RoomType, err)
		}
		for j := 0; j < entry.Count; j++ {
			if _, err := rooms.CreateTx(ctx, tx, entry.RoomType); err != nil {
				return 0, fmt.Errorf("insert room of type %q: %w", entry.RoomType, err)
			}
			created++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	committed = true
	return created, nil
}
