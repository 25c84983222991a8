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

type DeviceStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewDeviceStore(db *sql.DB, writer *dbpkg.Worker) *DeviceStore {
	return &DeviceStore{db: db, writer: writer}
}

func (s *DeviceStore) Create(ctx context.Context, rec store.DeviceRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	createdMs := rec.CreatedAt.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM devices WHERE id = ?;", rec.ID).Scan(&exists)
		if err == nil {
			return store.ErrExists
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("Create check device: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO devices(id, name, created_at_ms) VALUES (?, ?, ?);
`, rec.ID, rec.Name, createdMs); err != nil {
			return fmt.Errorf("Create insert device: %w", err)
		}
		return nil
	})
}

func (s *DeviceStore) Get(ctx context.Context, id string) (*store.DeviceRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}

	var rec store.DeviceRecord
	var createdMs int64
	err := s.db.QueryRowContext(ctx, `
SELECT id, name, created_at_ms FROM devices WHERE id = ?;
`, id).Scan(&rec.ID, &rec.Name, &createdMs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get device: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdMs).UTC()
	return &rec, nil
}

func (s *DeviceStore) List(ctx context.Context) ([]store.DeviceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, created_at_ms FROM devices ORDER BY id;
`)
	if err != nil {
		return nil, fmt.Errorf("List devices: %w", err)
	}
	defer rows.Close()

	var out []store.DeviceRecord
	for rows.Next() {
		var rec store.DeviceRecord
		var createdMs int64
		if err := rows.Scan(&rec.ID, &rec.Name, &createdMs); err != nil {
			return nil, fmt.Errorf("List devices scan: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *DeviceStore) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM devices WHERE id = ?;", id)
		if err != nil {
			return fmt.Errorf("Delete device: %w", err)
		}
		n, _ := res.RowsAffected()
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func (s *DeviceStore) SetSecret(ctx context.Context, id, secret string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO device_secrets(device_id, secret) VALUES (?, ?)
ON CONFLICT(device_id) DO UPDATE SET secret = excluded.secret;
`, id, secret); err != nil {
			return fmt.Errorf("SetSecret: %w", err)
		}
		return nil
	})
}

func (s *DeviceStore) GetSecret(ctx context.Context, id string) (string, error) {
	var secret string
	err := s.db.QueryRowContext(ctx,
		"SELECT secret FROM device_secrets WHERE device_id = ?;", id).Scan(&secret)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("GetSecret: %w", err)
	}
	return secret, nil
}
