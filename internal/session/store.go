// Package session keeps per-caller booking drafts. The surrounding system
// collects a booking field by field over a conversation; the draft for
// each caller identity lives here until it is confirmed or expires.
//
// Drafts are stored in Redis with a TTL. When no Redis client is
// available the store degrades to an in-process map with the same expiry
// semantics, which is enough for a single-process deployment and for
// tests. Session state is deliberately an explicit store keyed by caller
// identity, not ambient global state.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cbarkinozer/hotel-reservation-engine/internal/model"
)

// ErrNoDraft is returned when a caller has no draft, either because none
// was saved or because it expired.
var ErrNoDraft = errors.New("no draft for caller")

// Store holds booking drafts keyed by caller identity.
type Store struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration

	mu  sync.Mutex
	mem map[string]memEntry // fallback when rdb is nil
}

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewStore returns a Store backed by the given Redis client, or by process
// memory when the client is nil.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		rdb:    rdb,
		prefix: "session:draft:",
		ttl:    ttl,
		mem:    make(map[string]memEntry),
	}
}

// SaveDraft stores (or replaces) the caller's draft and resets its TTL.
func (s *Store) SaveDraft(ctx context.Context, callerID string, b *model.Booking) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if s.rdb != nil {
		return s.rdb.Set(ctx, s.prefix+callerID, data, s.ttl).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem[callerID] = memEntry{data: data, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

// GetDraft returns the caller's current draft, or ErrNoDraft.
func (s *Store) GetDraft(ctx context.Context, callerID string) (*model.Booking, error) {
	var data []byte
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, s.prefix+callerID).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoDraft
		}
		if err != nil {
			return nil, err
		}
		data = raw
	} else {
		s.mu.Lock()
		entry, ok := s.mem[callerID]
		if ok && time.Now().After(entry.expiresAt) {
			delete(s.mem, callerID)
			ok = false
		}
		s.mu.Unlock()
		if !ok {
			return nil, ErrNoDraft
		}
		data = entry.data
	}
	var b model.Booking
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &b, nil
}

// ClearDraft removes the caller's draft. Clearing an absent draft is not
// an error.
func (s *Store) ClearDraft(ctx context.Context, callerID string) error {
	if s.rdb != nil {
		return s.rdb.Del(ctx, s.prefix+callerID).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mem, callerID)
	return nil
}
