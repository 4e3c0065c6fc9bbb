package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect selects the DDL flavour used by Init. The two supported values
// match the drivers registered in db.go.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite3"
)

// tables, in dependency order. Reservations reference rooms, rooms
// reference room_types, so drops run front to back and creates back to
// front.
var tableNames = []string{"reservations", "rooms", "room_types"}

// Init provisions the schema. With wipe=false it creates the tables only
// if they are absent, so calling it on an existing store is safe. With
// wipe=true every table is dropped first and the store starts empty; this
// is the fresh-deployment and test path.
//
// Dates are stored as YYYY-MM-DD text. For that fixed-width format,
// lexicographic comparison in SQL is identical to chronological
// comparison, which the availability queries rely on.
//
// rooms.is_available is a denormalized hint kept in step with the
// reservation set on every mutation. It is never consulted to decide
// availability; the overlap query over reservations is authoritative.
func Init(ctx context.Context, db *sql.DB, dialect Dialect, wipe bool) error {
	if wipe {
		for _, name := range tableNames {
			if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
				return fmt.Errorf("drop %s: %w", name, err)
			}
		}
	}
	for _, stmt := range ddl(dialect) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

func ddl(dialect Dialect) []string {
	if dialect == DialectSQLite {
		return []string{
			`CREATE TABLE IF NOT EXISTS room_types (
				room_type   TEXT PRIMARY KEY,
				total_count INTEGER NOT NULL CHECK (total_count >= 0)
			)`,
			// AUTOINCREMENT (not plain rowid) so room ids are monotonic and
			// never reused, even after deletes.
			`CREATE TABLE IF NOT EXISTS rooms (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				room_type    TEXT NOT NULL,
				is_available INTEGER NOT NULL DEFAULT 1,
				FOREIGN KEY (room_type) REFERENCES room_types(room_type)
			)`,
			`CREATE TABLE IF NOT EXISTS reservations (
				id                INTEGER PRIMARY KEY AUTOINCREMENT,
				room_id           INTEGER NOT NULL,
				start_date        TEXT NOT NULL,
				end_date          TEXT NOT NULL,
				full_name         TEXT NOT NULL DEFAULT '',
				phone_number      TEXT NOT NULL DEFAULT '',
				email             TEXT NOT NULL DEFAULT '',
				guest_count       INTEGER NOT NULL DEFAULT 1,
				payment_method    TEXT NOT NULL DEFAULT '',
				include_breakfast INTEGER NOT NULL DEFAULT 0,
				note              TEXT NOT NULL DEFAULT '',
				created_at        TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
				CHECK (start_date < end_date),
				FOREIGN KEY (room_id) REFERENCES rooms(id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_reservations_room_dates
				ON reservations(room_id, start_date, end_date)`,
		}
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS room_types (
			room_type   VARCHAR(32) PRIMARY KEY,
			total_count INT NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			room_type    VARCHAR(32) NOT NULL,
			is_available TINYINT(1) NOT NULL DEFAULT 1,
			CONSTRAINT fk_rooms_type FOREIGN KEY (room_type) REFERENCES room_types(room_type)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			room_id           BIGINT UNSIGNED NOT NULL,
			start_date        CHAR(10) NOT NULL,
			end_date          CHAR(10) NOT NULL,
			full_name         VARCHAR(255) NOT NULL DEFAULT '',
			phone_number      VARCHAR(32) NOT NULL DEFAULT '',
			email             VARCHAR(255) NOT NULL DEFAULT '',
			guest_count       INT NOT NULL DEFAULT 1,
			payment_method    VARCHAR(64) NOT NULL DEFAULT '',
			include_breakfast TINYINT(1) NOT NULL DEFAULT 0,
			note              TEXT,
			created_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CHECK (start_date < end_date),
			KEY idx_reservations_room_dates (room_id, start_date, end_date),
			CONSTRAINT fk_reservations_room FOREIGN KEY (room_id) REFERENCES rooms(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
}
