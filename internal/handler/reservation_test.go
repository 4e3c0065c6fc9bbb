package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/cbarkinozer/hotel-reservation-engine/internal/database"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/engine"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/handler"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/router"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/seed"
	"github.com/cbarkinozer/hotel-reservation-engine/internal/session"
)

// newTestServer wires a full echo instance over an in-memory store seeded
// with {single:1, double:1, suite:2}.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()
	if err := database.Init(ctx, db, database.DialectSQLite, true); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	eng := engine.New(db)
	if _, err := seed.Apply(ctx, eng.Rooms(), []seed.Entry{
		{RoomType: "single", Count: 1},
		{RoomType: "double", Count: 1},
		{RoomType: "suite", Count: 2},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	e := echo.New()
	sessions := session.NewStore(nil, time.Minute)
	router.RegisterRoutes(e,
		handler.NewReservationHandler(eng),
		handler.NewSessionHandler(sessions, eng, validator.New()),
	)
	return e
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

const suiteBody = `{"room_type":"suite","start_date":"2024-10-01","end_date":"2024-10-05","full_name":"Test Guest","phone_number":"5555555555","email":"guest@example.com","guest_count":2,"number_of_rooms":1,"payment_method":"credit card"}`

func TestReserveByTypeEndpoint(t *testing.T) {
	e := newTestServer(t)

	t.Run("first two suites succeed", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/v1/reservations", suiteBody)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		body := decode(t, rec)
		if body["room_id"].(float64) != 3 {
			t.Errorf("expected room 3, got %v", body["room_id"])
		}
		if !strings.Contains(body["message"].(string), "reserved from 2024-10-01 to 2024-10-05") {
			t.Errorf("unexpected message %v", body["message"])
		}

		rec = doJSON(e, http.MethodPost, "/v1/reservations", suiteBody)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 for second suite, got %d", rec.Code)
		}
		if body := decode(t, rec); body["room_id"].(float64) != 4 {
			t.Errorf("expected room 4, got %v", body["room_id"])
		}
	})

	t.Run("third suite is a conflict", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/v1/reservations", suiteBody)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
		if body := decode(t, rec); !strings.Contains(body["error"].(string), "No available rooms") {
			t.Errorf("unexpected error %v", body["error"])
		}
	})

	t.Run("invalid dates are a 400", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/v1/reservations",
			`{"room_type":"single","start_date":"03-10-2024","end_date":"07-10-2024"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("non-positive guest count is a 400", func(t *testing.T) {
		for _, count := range []string{"0", "-5"} {
			rec := doJSON(e, http.MethodPost, "/v1/reservations",
				`{"room_type":"single","start_date":"2024-11-01","end_date":"2024-11-03","guest_count":`+count+`}`)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("guest_count %s: expected 400, got %d", count, rec.Code)
			}
			if body := decode(t, rec); !strings.Contains(body["error"].(string), "Guest count") {
				t.Errorf("guest_count %s: unexpected error %v", count, body["error"])
			}
		}
		// The rejected bookings must not occupy the single room.
		rec := doJSON(e, http.MethodGet, "/v1/rooms/free?room_type=single&start_date=2024-11-01&end_date=2024-11-03", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if body := decode(t, rec); len(body["room_ids"].([]interface{})) != 1 {
			t.Errorf("expected the single room to stay free, got %v", body["room_ids"])
		}
	})

	t.Run("missing room type is a 400", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/v1/reservations",
			`{"start_date":"2024-10-01","end_date":"2024-10-05"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestReserveByIDEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/rooms/1/reservations",
		`{"start_date":"2024-10-01","end_date":"2024-10-05","full_name":"Test Guest","guest_count":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Same room, overlapping range.
	rec = doJSON(e, http.MethodPost, "/v1/rooms/1/reservations",
		`{"start_date":"2024-10-03","end_date":"2024-10-06","guest_count":1}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for occupied room, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/v1/rooms/99/reservations",
		`{"start_date":"2024-10-01","end_date":"2024-10-05","guest_count":1}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown room, got %d", rec.Code)
	}
}

func TestCancelEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/rooms/2/reservations",
		`{"start_date":"2024-10-01","end_date":"2024-10-05","guest_count":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup reserve failed: %d", rec.Code)
	}

	rec = doJSON(e, http.MethodDelete, "/v1/rooms/2/reservation", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decode(t, rec); !strings.Contains(body["message"].(string), "has been canceled") {
		t.Errorf("unexpected message %v", body["message"])
	}

	rec = doJSON(e, http.MethodDelete, "/v1/rooms/2/reservation", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for repeated cancel, got %d", rec.Code)
	}
}

func TestFreeRoomsAndReleaseEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/v1/rooms/free?room_type=suite&start_date=2024-10-01&end_date=2024-10-05", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decode(t, rec); len(body["room_ids"].([]interface{})) != 2 {
		t.Errorf("expected two free suites, got %v", body["room_ids"])
	}

	rec = doJSON(e, http.MethodPost, "/v1/rooms/3/reservations",
		`{"start_date":"2024-09-20","end_date":"2024-09-25","guest_count":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup reserve failed: %d", rec.Code)
	}
	rec = doJSON(e, http.MethodPost, "/v1/maintenance/release-past", `{"today":"2024-10-01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decode(t, rec); body["released"].(float64) != 1 {
		t.Errorf("expected 1 released, got %v", body["released"])
	}
}

func TestListRoomTypesEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/v1/rooms/types", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	types := decode(t, rec)["room_types"].([]interface{})
	if len(types) != 3 {
		t.Fatalf("expected 3 room types, got %d", len(types))
	}
	// ListTypes orders by name: double, single, suite.
	first := types[0].(map[string]interface{})
	if first["name"] != "double" || first["total_count"].(float64) != 1 {
		t.Errorf("unexpected first type: %v", first)
	}
	last := types[2].(map[string]interface{})
	if last["name"] != "suite" || last["total_count"].(float64) != 2 {
		t.Errorf("unexpected last type: %v", last)
	}
}

func TestSessionDraftFlow(t *testing.T) {
	e := newTestServer(t)

	t.Run("no draft yet", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/v1/sessions/u1/draft", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("incomplete draft is saved but not confirmable", func(t *testing.T) {
		rec := doJSON(e, http.MethodPut, "/v1/sessions/u1/draft", `{"room_type":"suite"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("save draft: %d", rec.Code)
		}
		rec = doJSON(e, http.MethodPost, "/v1/sessions/u1/confirm", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for incomplete draft, got %d", rec.Code)
		}
	})

	t.Run("complete draft confirms and clears", func(t *testing.T) {
		rec := doJSON(e, http.MethodPut, "/v1/sessions/u1/draft", suiteBody)
		if rec.Code != http.StatusOK {
			t.Fatalf("save draft: %d", rec.Code)
		}
		rec = doJSON(e, http.MethodPost, "/v1/sessions/u1/confirm", "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if body := decode(t, rec); body["room_id"].(float64) != 3 {
			t.Errorf("expected room 3, got %v", body["room_id"])
		}
		rec = doJSON(e, http.MethodGet, "/v1/sessions/u1/draft", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("draft should be cleared after confirm, got %d", rec.Code)
		}
	})
}
