package store

import (
	"context"
	"time"
)

// EventRecord is one row of the append-only audit log.
type EventRecord struct {
	ID        int64
	DeviceID  string
	UserID    string // empty when the event has no acting user
	EventType string
	At        time.Time
	Details   string
}

// EventFilter narrows a Query.  Zero values mean "no filter"; Limit is
// clamped by the service layer.
type EventFilter struct {
	DeviceID string
	UserID   string
	From     *time.Time
	To       *time.Time
	Limit    int
}

type EventStore interface {
	Append(ctx context.Context, rec EventRecord) error

	// Query returns matching events newest-first.
	Query(ctx context.Context, f EventFilter) ([]EventRecord, error)

	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
