package database

import (
	"context"
	"strings"
	"testing"
)

// Both dialects must declare the same date-order constraint on
// reservations; availability queries assume no stored range is inverted.
func TestDDLDateOrderCheckParity(t *testing.T) {
	for _, dialect := range []Dialect{DialectSQLite, DialectMySQL} {
		found := false
		for _, stmt := range ddl(dialect) {
			if strings.Contains(stmt, "reservations") && strings.Contains(stmt, "CHECK (start_date < end_date)") {
				found = true
			}
		}
		if !found {
			t.Errorf("%s reservations DDL is missing the date-order CHECK", dialect)
		}
	}
}

func TestInitRejectsInvertedRange(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()
	if err := Init(ctx, db, DialectSQLite, true); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO room_types (room_type, total_count) VALUES ('single', 1)`); err != nil {
		t.Fatalf("insert type: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO rooms (room_type) VALUES ('single')`); err != nil {
		t.Fatalf("insert room: %v", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO reservations (room_id, start_date, end_date) VALUES (1, '2024-10-05', '2024-10-01')`)
	if err == nil {
		t.Error("inverted date range was accepted by the schema")
	}
}
