package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	dbpkg "github.com/wakko59/Geata-api/internal/db"
	"github.com/wakko59/Geata-api/internal/geata/schedule"
)

type ScheduleStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewScheduleStore(db *sql.DB, writer *dbpkg.Worker) *ScheduleStore {
	return &ScheduleStore{db: db, writer: writer}
}

func (s *ScheduleStore) Create(ctx context.Context, name, description string, slots []schedule.Slot) (int64, error) {
	nowMs := time.Now().UTC().UnixMilli()

	var id int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO schedules(name, description, created_at_ms) VALUES (?, ?, ?);
`, name, description, nowMs)
		if err != nil {
			return fmt.Errorf("Create schedule: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("Create schedule id: %w", err)
		}
		return insertSlots(ctx, tx, id, slots)
	})
	return id, err
}

func (s *ScheduleStore) Get(ctx context.Context, id int64) (*schedule.Schedule, error) {
	var sched schedule.Schedule
	err := s.db.QueryRowContext(ctx, `
SELECT id, name, description FROM schedules WHERE id = ?;
`, id).Scan(&sched.ID, &sched.Name, &sched.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get schedule: %w", err)
	}

	slots, err := s.slotsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	sched.Slots = slots
	return &sched, nil
}

func (s *ScheduleStore) List(ctx context.Context) ([]schedule.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, description FROM schedules ORDER BY LOWER(name);
`)
	if err != nil {
		return nil, fmt.Errorf("List schedules: %w", err)
	}
	defer rows.Close()

	var out []schedule.Schedule
	for rows.Next() {
		var sched schedule.Schedule
		if err := rows.Scan(&sched.ID, &sched.Name, &sched.Description); err != nil {
			return nil, fmt.Errorf("List schedules scan: %w", err)
		}
		out = append(out, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		slots, err := s.slotsFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Slots = slots
	}
	return out, nil
}

func (s *ScheduleStore) Update(ctx context.Context, id int64, name, description string, slots []schedule.Slot) (bool, error) {
	var updated bool
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE schedules SET name = ?, description = ? WHERE id = ?;
`, name, description, id)
		if err != nil {
			return fmt.Errorf("Update schedule: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		updated = true

		// Replace the slot list wholesale.
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM schedule_slots WHERE schedule_id = ?;", id); err != nil {
			return fmt.Errorf("Update schedule clear slots: %w", err)
		}
		return insertSlots(ctx, tx, id, slots)
	})
	return updated, err
}

func (s *ScheduleStore) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?;", id)
		if err != nil {
			return fmt.Errorf("Delete schedule: %w", err)
		}
		n, _ := res.RowsAffected()
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func (s *ScheduleStore) slotsFor(ctx context.Context, scheduleID int64) ([]schedule.Slot, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, days_of_week, start_hhmm, end_hhmm
FROM schedule_slots
WHERE schedule_id = ?
ORDER BY id;
`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("slots query: %w", err)
	}
	defer rows.Close()

	var out []schedule.Slot
	for rows.Next() {
		var slot schedule.Slot
		var days sql.NullString
		if err := rows.Scan(&slot.ID, &days, &slot.Start, &slot.End); err != nil {
			return nil, fmt.Errorf("slots scan: %w", err)
		}
		if days.Valid && days.String != "" {
			if err := json.Unmarshal([]byte(days.String), &slot.DaysOfWeek); err != nil {
				return nil, fmt.Errorf("slots days_of_week: %w", err)
			}
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

func insertSlots(ctx context.Context, tx *sql.Tx, scheduleID int64, slots []schedule.Slot) error {
	for _, slot := range slots {
		var days any
		if len(slot.DaysOfWeek) > 0 {
			b, err := json.Marshal(slot.DaysOfWeek)
			if err != nil {
				return fmt.Errorf("marshal days_of_week: %w", err)
			}
			days = string(b)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO schedule_slots(schedule_id, days_of_week, start_hhmm, end_hhmm)
VALUES (?, ?, ?, ?);
`, scheduleID, days, slot.Start, slot.End); err != nil {
			return fmt.Errorf("insert slot: %w", err)
		}
	}
	return nil
}
