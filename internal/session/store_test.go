package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cbarkinozer/hotel-reservation-engine/internal/model"
)

// The tests exercise the in-process fallback path (nil Redis client); the
// Redis path shares all logic above the storage calls.

func TestDraftRoundTrip(t *testing.T) {
	s := NewStore(nil, time.Minute)
	ctx := context.Background()

	draft := &model.Booking{
		FullName:  "Jane Doe",
		RoomType:  "suite",
		StartDate: "2024-10-01",
		EndDate:   "2024-10-05",
	}
	if err := s.SaveDraft(ctx, "caller-1", draft); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.GetDraft(ctx, "caller-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FullName != "Jane Doe" || got.RoomType != "suite" || got.StartDate != "2024-10-01" {
		t.Errorf("draft mangled: %+v", got)
	}

	// Drafts are per caller.
	if _, err := s.GetDraft(ctx, "caller-2"); !errors.Is(err, ErrNoDraft) {
		t.Errorf("expected ErrNoDraft for other caller, got %v", err)
	}
}

func TestSaveReplacesDraft(t *testing.T) {
	s := NewStore(nil, time.Minute)
	ctx := context.Background()

	if err := s.SaveDraft(ctx, "c", &model.Booking{RoomType: "single"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveDraft(ctx, "c", &model.Booking{RoomType: "double"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := s.GetDraft(ctx, "c")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RoomType != "double" {
		t.Errorf("expected replaced draft, got %+v", got)
	}
}

func TestClearDraft(t *testing.T) {
	s := NewStore(nil, time.Minute)
	ctx := context.Background()

	if err := s.SaveDraft(ctx, "c", &model.Booking{RoomType: "single"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.ClearDraft(ctx, "c"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := s.GetDraft(ctx, "c"); !errors.Is(err, ErrNoDraft) {
		t.Errorf("expected ErrNoDraft after clear, got %v", err)
	}
	// Clearing again is not an error.
	if err := s.ClearDraft(ctx, "c"); err != nil {
		t.Errorf("repeated clear: %v", err)
	}
}

func TestDraftExpires(t *testing.T) {
	s := NewStore(nil, 10*time.Millisecond)
	ctx := context.Background()

	if err := s.SaveDraft(ctx, "c", &model.Booking{RoomType: "single"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := s.GetDraft(ctx, "c"); !errors.Is(err, ErrNoDraft) {
		t.Errorf("expected expired draft, got %v", err)
	}
}
