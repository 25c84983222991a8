package store

import (
	"context"
	"time"
)

const (
	CommandOpen = "OPEN"
	CommandAux1 = "AUX1"
	CommandAux2 = "AUX2"

	StatusQueued    = "queued"
	StatusCompleted = "completed"
)

// CommandRecord is a queued or completed hardware action.  UserID is empty
// for admin-triggered test pulses.  Commands transition exactly once, from
// queued to completed, and are never deleted in normal operation.
type CommandRecord struct {
	ID          string
	DeviceID    string
	UserID      string
	Type        string
	Status      string
	RequestedAt time.Time
	CompletedAt *time.Time
	Result      string
	DurationMs  int64
}

type CommandStore interface {
	// Enqueue inserts a fresh queued command.  The caller supplies the id;
	// the store assigns the insertion sequence used to break requested-at
	// ties in Drain.
	Enqueue(ctx context.Context, rec CommandRecord) error

	// Drain returns all queued commands for the device, oldest first.  It is
	// read-only: commands leave the queued state only via Complete.
	Drain(ctx context.Context, deviceID string) ([]CommandRecord, error)

	// Complete transitions a command from queued to completed, stamping
	// completedAt and result.  The update is a compare-and-swap on
	// status='queued' scoped to the device, so duplicate reports and reports
	// for foreign devices are safe no-ops; those return (nil, nil).
	Complete(ctx context.Context, deviceID, commandID, result string, at time.Time) (*CommandRecord, error)

	ListRecent(ctx context.Context, limit int) ([]CommandRecord, error)

	// PruneCompletedBefore deletes completed commands older than the cutoff.
	// Queued commands are never pruned.
	PruneCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
