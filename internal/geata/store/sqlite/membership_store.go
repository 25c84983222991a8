package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	dbpkg "github.com/wakko59/Geata-api/internal/db"
	"github.com/wakko59/Geata-api/internal/geata/store"
)

type MembershipStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewMembershipStore(db *sql.DB, writer *dbpkg.Worker) *MembershipStore {
	return &MembershipStore{db: db, writer: writer}
}

func (s *MembershipStore) Upsert(ctx context.Context, rec store.MembershipRecord) error {
	if rec.Role == "" {
		rec.Role = store.RoleOperator
	}

	var scheduleID any
	if rec.ScheduleID != nil {
		scheduleID = *rec.ScheduleID
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO device_users(device_id, user_id, role, schedule_id)
VALUES (?, ?, ?, ?)
ON CONFLICT(device_id, user_id) DO UPDATE SET
  role = excluded.role,
  schedule_id = excluded.schedule_id;
`, rec.DeviceID, rec.UserID, rec.Role, scheduleID); err != nil {
			return fmt.Errorf("Upsert membership: %w", err)
		}
		return nil
	})
}

func (s *MembershipStore) Get(ctx context.Context, deviceID, userID string) (*store.MembershipRecord, error) {
	var rec store.MembershipRecord
	var schedID sql.NullInt64

	err := s.db.QueryRowContext(ctx, `
SELECT device_id, user_id, role, schedule_id
FROM device_users
WHERE device_id = ? AND user_id = ?;
`, deviceID, userID).Scan(&rec.DeviceID, &rec.UserID, &rec.Role, &schedID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get membership: %w", err)
	}
	if schedID.Valid {
		v := schedID.Int64
		rec.ScheduleID = &v
	}
	return &rec, nil
}

func (s *MembershipStore) Delete(ctx context.Context, deviceID, userID string) (bool, error) {
	var deleted bool
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM device_users WHERE device_id = ? AND user_id = ?;
`, deviceID, userID)
		if err != nil {
			return fmt.Errorf("Delete membership: %w", err)
		}
		n, _ := res.RowsAffected()
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func (s *MembershipStore) ListByDevice(ctx context.Context, deviceID string) ([]store.MembershipRecord, error) {
	return s.listWhere(ctx, "device_id = ?", deviceID)
}

func (s *MembershipStore) ListByUser(ctx context.Context, userID string) ([]store.MembershipRecord, error) {
	return s.listWhere(ctx, "user_id = ?", userID)
}

func (s *MembershipStore) listWhere(ctx context.Context, where string, arg any) ([]store.MembershipRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT device_id, user_id, role, schedule_id
FROM device_users
WHERE `+where+`
ORDER BY device_id, user_id;
`, arg)
	if err != nil {
		return nil, fmt.Errorf("List memberships: %w", err)
	}
	defer rows.Close()

	var out []store.MembershipRecord
	for rows.Next() {
		var rec store.MembershipRecord
		var schedID sql.NullInt64
		if err := rows.Scan(&rec.DeviceID, &rec.UserID, &rec.Role, &schedID); err != nil {
			return nil, fmt.Errorf("List memberships scan: %w", err)
		}
		if schedID.Valid {
			v := schedID.Int64
			rec.ScheduleID = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *MembershipStore) SetScheduleAssignment(ctx context.Context, deviceID, userID string, scheduleID *int64) error {
	var sid any
	if scheduleID != nil {
		sid = *scheduleID
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE device_users SET schedule_id = ?
WHERE device_id = ? AND user_id = ?;
`, sid, deviceID, userID)
		if err != nil {
			return fmt.Errorf("SetScheduleAssignment update: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}

		// No membership yet: create one with the default role.
		if _, err := tx.ExecContext(ctx, `
INSERT INTO device_users(device_id, user_id, role, schedule_id)
VALUES (?, ?, ?, ?);
`, deviceID, userID, store.RoleOperator, sid); err != nil {
			return fmt.Errorf("SetScheduleAssignment insert: %w", err)
		}
		return nil
	})
}
