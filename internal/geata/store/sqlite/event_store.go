package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/wakko59/Geata-api/internal/db"
	"github.com/wakko59/Geata-api/internal/geata/store"
)

type EventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewEventStore(db *sql.DB, writer *dbpkg.Worker) *EventStore {
	return &EventStore{db: db, writer: writer}
}

func (s *EventStore) Append(ctx context.Context, rec store.EventRecord) error {
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	atMs := rec.At.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO device_events(device_id, user_id, event_type, at_ms, details)
VALUES (?, ?, ?, ?, ?);
`, rec.DeviceID, nullable(rec.UserID), rec.EventType, atMs, nullable(rec.Details)); err != nil {
			return fmt.Errorf("Append event: %w", err)
		}
		return nil
	})
}

func (s *EventStore) Query(ctx context.Context, f store.EventFilter) ([]store.EventRecord, error) {
	var conds []string
	var args []any

	if f.DeviceID != "" {
		conds = append(conds, "device_id = ?")
		args = append(args, f.DeviceID)
	}
	if f.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.From != nil {
		conds = append(conds, "at_ms >= ?")
		args = append(args, f.From.UTC().UnixMilli())
	}
	if f.To != nil {
		conds = append(conds, "at_ms <= ?")
		args = append(args, f.To.UTC().UnixMilli())
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, `
SELECT id, device_id, user_id, event_type, at_ms, details
FROM device_events
`+where+`
ORDER BY at_ms DESC, id DESC
LIMIT ?;
`, args...)
	if err != nil {
		return nil, fmt.Errorf("Query events: %w", err)
	}
	defer rows.Close()

	var out []store.EventRecord
	for rows.Next() {
		var rec store.EventRecord
		var userID, details sql.NullString
		var atMs int64
		if err := rows.Scan(&rec.ID, &rec.DeviceID, &userID, &rec.EventType, &atMs, &details); err != nil {
			return nil, fmt.Errorf("Query events scan: %w", err)
		}
		rec.UserID = userID.String
		rec.Details = details.String
		rec.At = time.UnixMilli(atMs).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *EventStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM device_events WHERE at_ms < ?;
`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}
