package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wakko59/Geata-api/internal/geata/store"
)

type commandRow struct {
	rec store.CommandRecord
	seq int64
}

type CommandStore struct {
	mu      sync.Mutex
	nextSeq int64
	rows    []commandRow
}

func NewCommandStore() *CommandStore {
	return &CommandStore{}
}

func (s *CommandStore) Enqueue(_ context.Context, rec store.CommandRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.RequestedAt.IsZero() {
		rec.RequestedAt = time.Now().UTC()
	}
	rec.Status = store.StatusQueued
	s.nextSeq++
	s.rows = append(s.rows, commandRow{rec: rec, seq: s.nextSeq})
	return nil
}

func (s *CommandStore) Drain(_ context.Context, deviceID string) ([]store.CommandRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []commandRow
	for _, row := range s.rows {
		if row.rec.DeviceID == deviceID && row.rec.Status == store.StatusQueued {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].rec.RequestedAt.Equal(rows[j].rec.RequestedAt) {
			return rows[i].rec.RequestedAt.Before(rows[j].rec.RequestedAt)
		}
		return rows[i].seq < rows[j].seq
	})

	out := make([]store.CommandRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.rec)
	}
	return out, nil
}

func (s *CommandStore) Complete(_ context.Context, deviceID, commandID, result string, at time.Time) (*store.CommandRecord, error) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		rec := &s.rows[i].rec
		if rec.ID != commandID || rec.DeviceID != deviceID || rec.Status != store.StatusQueued {
			continue
		}
		rec.Status = store.StatusCompleted
		rec.Result = result
		completedAt := at.UTC()
		rec.CompletedAt = &completedAt
		out := *rec
		return &out, nil
	}
	return nil, nil
}

func (s *CommandStore) ListRecent(_ context.Context, limit int) ([]store.CommandRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := append([]commandRow(nil), s.rows...)
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].rec.RequestedAt.Equal(rows[j].rec.RequestedAt) {
			return rows[i].rec.RequestedAt.After(rows[j].rec.RequestedAt)
		}
		return rows[i].seq > rows[j].seq
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]store.CommandRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.rec)
	}
	return out, nil
}

func (s *CommandStore) deleteByDevice(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []commandRow
	for _, row := range s.rows {
		if row.rec.DeviceID != deviceID {
			kept = append(kept, row)
		}
	}
	s.rows = kept
}

func (s *CommandStore) PruneCompletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []commandRow
	var deleted int64
	for _, row := range s.rows {
		if row.rec.Status == store.StatusCompleted &&
			row.rec.CompletedAt != nil && row.rec.CompletedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	s.rows = kept
	return deleted, nil
}
