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

type UserStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewUserStore(db *sql.DB, writer *dbpkg.Worker) *UserStore {
	return &UserStore{db: db, writer: writer}
}

func (s *UserStore) Create(ctx context.Context, rec store.UserRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	createdMs := rec.CreatedAt.UTC().UnixMilli()

	// Email/phone/hash are NULL when absent so the UNIQUE constraints only
	// apply to real values.
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if rec.Email != "" {
			var exists int
			err := tx.QueryRowContext(ctx,
				"SELECT 1 FROM users WHERE email = ?;", rec.Email).Scan(&exists)
			if err == nil {
				return store.ErrExists
			}
			if err != sql.ErrNoRows {
				return fmt.Errorf("Create check email: %w", err)
			}
		}
		if rec.Phone != "" {
			var exists int
			err := tx.QueryRowContext(ctx,
				"SELECT 1 FROM users WHERE phone = ?;", rec.Phone).Scan(&exists)
			if err == nil {
				return store.ErrExists
			}
			if err != sql.ErrNoRows {
				return fmt.Errorf("Create check phone: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO users(id, name, email, phone, password_hash, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?);
`, rec.ID, rec.Name, nullable(rec.Email), nullable(rec.Phone), nullable(rec.PasswordHash), createdMs); err != nil {
			return fmt.Errorf("Create insert user: %w", err)
		}
		return nil
	})
}

func (s *UserStore) Get(ctx context.Context, id string) (*store.UserRecord, error) {
	return s.getWhere(ctx, "id = ?", id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*store.UserRecord, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	return s.getWhere(ctx, "email = ?", email)
}

func (s *UserStore) GetByPhone(ctx context.Context, phone string) (*store.UserRecord, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	return s.getWhere(ctx, "phone = ?", phone)
}

func (s *UserStore) getWhere(ctx context.Context, where string, arg any) (*store.UserRecord, error) {
	var rec store.UserRecord
	var email, phone, hash sql.NullString
	var createdMs int64

	err := s.db.QueryRowContext(ctx, `
SELECT id, name, email, phone, password_hash, created_at_ms
FROM users WHERE `+where+`;
`, arg).Scan(&rec.ID, &rec.Name, &email, &phone, &hash, &createdMs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get user: %w", err)
	}

	rec.Email = email.String
	rec.Phone = phone.String
	rec.PasswordHash = hash.String
	rec.CreatedAt = time.UnixMilli(createdMs).UTC()
	return &rec, nil
}

func (s *UserStore) List(ctx context.Context) ([]store.UserRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, email, phone, password_hash, created_at_ms
FROM users ORDER BY name COLLATE NOCASE;
`)
	if err != nil {
		return nil, fmt.Errorf("List users: %w", err)
	}
	defer rows.Close()

	var out []store.UserRecord
	for rows.Next() {
		var rec store.UserRecord
		var email, phone, hash sql.NullString
		var createdMs int64
		if err := rows.Scan(&rec.ID, &rec.Name, &email, &phone, &hash, &createdMs); err != nil {
			return nil, fmt.Errorf("List users scan: %w", err)
		}
		rec.Email = email.String
		rec.Phone = phone.String
		rec.PasswordHash = hash.String
		rec.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *UserStore) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?;", id)
		if err != nil {
			return fmt.Errorf("Delete user: %w", err)
		}
		n, _ := res.RowsAffected()
		deleted = n > 0
		return nil
	})
	return deleted, err
}

// nullable maps "" to NULL for columns with UNIQUE constraints.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
