package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/wakko59/Geata-api/internal/db"
	"github.com/wakko59/Geata-api/internal/geata/store"
)

type CommandStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewCommandStore(db *sql.DB, writer *dbpkg.Worker) *CommandStore {
	return &CommandStore{db: db, writer: writer}
}

func (s *CommandStore) Enqueue(ctx context.Context, rec store.CommandRecord) error {
	if rec.RequestedAt.IsZero() {
		rec.RequestedAt = time.Now().UTC()
	}
	requestedMs := rec.RequestedAt.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// seq breaks requested_at ties with insertion order.  All writes run
		// on the single writer, so MAX(seq)+1 cannot race.
		var seq int64
		if err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(seq), 0) + 1 FROM commands;").Scan(&seq); err != nil {
			return fmt.Errorf("Enqueue seq: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO commands(
  id, seq, device_id, user_id, type, status,
  requested_at_ms, completed_at_ms, result, duration_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, NULL, NULL, ?);
`, rec.ID, seq, rec.DeviceID, nullable(rec.UserID), rec.Type, store.StatusQueued,
			requestedMs, rec.DurationMs); err != nil {
			return fmt.Errorf("Enqueue insert: %w", err)
		}
		return nil
	})
}

func (s *CommandStore) Drain(ctx context.Context, deviceID string) ([]store.CommandRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, device_id, user_id, type, status, requested_at_ms, completed_at_ms, result, duration_ms
FROM commands
WHERE device_id = ? AND status = ?
ORDER BY requested_at_ms ASC, seq ASC;
`, deviceID, store.StatusQueued)
	if err != nil {
		return nil, fmt.Errorf("Drain query: %w", err)
	}
	defer rows.Close()

	return scanCommands(rows)
}

func (s *CommandStore) Complete(ctx context.Context, deviceID, commandID, result string, at time.Time) (*store.CommandRecord, error) {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	completedMs := at.UTC().UnixMilli()

	var rec *store.CommandRecord
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// CAS on status: a duplicate report, a foreign device's command id or
		// an unknown id all update zero rows and leave rec nil.
		res, err := tx.ExecContext(ctx, `
UPDATE commands
SET status = ?, completed_at_ms = ?, result = ?
WHERE id = ? AND device_id = ? AND status = ?;
`, store.StatusCompleted, completedMs, result, commandID, deviceID, store.StatusQueued)
		if err != nil {
			return fmt.Errorf("Complete update: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return nil
		}

		row := tx.QueryRowContext(ctx, `
SELECT id, device_id, user_id, type, status, requested_at_ms, completed_at_ms, result, duration_ms
FROM commands WHERE id = ?;
`, commandID)
		c, err := scanCommand(row)
		if err != nil {
			return fmt.Errorf("Complete reload: %w", err)
		}
		rec = c
		return nil
	})
	return rec, err
}

func (s *CommandStore) ListRecent(ctx context.Context, limit int) ([]store.CommandRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, device_id, user_id, type, status, requested_at_ms, completed_at_ms, result, duration_ms
FROM commands
ORDER BY requested_at_ms DESC, seq DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent query: %w", err)
	}
	defer rows.Close()

	return scanCommands(rows)
}

// PruneCompletedBefore deletes completed commands older than the cutoff.
// The status guard keeps queued commands alive however old they are — a
// device can be offline for a long time and must still receive its backlog.
func (s *CommandStore) PruneCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM commands
WHERE status = ? AND completed_at_ms < ?;
`, store.StatusCompleted, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneCompletedBefore: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommand(row rowScanner) (*store.CommandRecord, error) {
	var rec store.CommandRecord
	var userID, result sql.NullString
	var requestedMs int64
	var completedMs sql.NullInt64

	if err := row.Scan(
		&rec.ID, &rec.DeviceID, &userID, &rec.Type, &rec.Status,
		&requestedMs, &completedMs, &result, &rec.DurationMs,
	); err != nil {
		return nil, err
	}

	rec.UserID = userID.String
	rec.Result = result.String
	rec.RequestedAt = time.UnixMilli(requestedMs).UTC()
	if completedMs.Valid {
		t := time.UnixMilli(completedMs.Int64).UTC()
		rec.CompletedAt = &t
	}
	return &rec, nil
}

func scanCommands(rows *sql.Rows) ([]store.CommandRecord, error) {
	var out []store.CommandRecord
	for rows.Next() {
		rec, err := scanCommand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}
