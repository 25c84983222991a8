package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wakko59/Geata-api/internal/geata/store"
)

// EventStore is an in-memory append-only audit log.  It is intended for use
// in tests and dev environments.
type EventStore struct {
	mu     sync.Mutex
	nextID int64
	events []store.EventRecord
}

func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) Append(_ context.Context, rec store.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	s.nextID++
	rec.ID = s.nextID
	s.events = append(s.events, rec)
	return nil
}

func (s *EventStore) Query(_ context.Context, f store.EventFilter) ([]store.EventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.EventRecord
	for _, ev := range s.events {
		if f.DeviceID != "" && ev.DeviceID != f.DeviceID {
			continue
		}
		if f.UserID != "" && ev.UserID != f.UserID {
			continue
		}
		if f.From != nil && ev.At.Before(*f.From) {
			continue
		}
		if f.To != nil && ev.At.After(*f.To) {
			continue
		}
		out = append(out, ev)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].At.Equal(out[j].At) {
			return out[i].At.After(out[j].At)
		}
		return out[i].ID > out[j].ID
	})

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *EventStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []store.EventRecord
	var deleted int64
	for _, ev := range s.events {
		if ev.At.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	s.events = kept
	return deleted, nil
}

// Events returns a copy of all recorded events.  Test-only helper.
func (s *EventStore) Events() []store.EventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.EventRecord, len(s.events))
	copy(out, s.events)
	return out
}
