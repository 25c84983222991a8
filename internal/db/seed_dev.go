package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedDev pre-creates a couple of gates so a fresh dev environment has
// something to attach users to.  Safe to run repeatedly.
func SeedDev(ctx context.Context, db *sql.DB) error {
	now := time.Now().UTC().UnixMilli()

	seed := []struct{ id, name string }{
		{"gate1", "Warehouse Gate"},
		{"gate2", "Yard Barrier"},
	}

	for _, d := range seed {
		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO devices(id, name, created_at_ms)
VALUES (?, ?, ?);`, d.id, d.name, now); err != nil {
			return fmt.Errorf("seed device %s: %w", d.id, err)
		}
	}

	return nil
}
