package store

import (
	"context"
	"time"
)

// UserRecord is a registered or pre-provisioned user.  Email, Phone and
// PasswordHash are empty when absent; a user without a password hash cannot
// authenticate but can still be a device member.
type UserRecord struct {
	ID           string
	Name         string
	Email        string
	Phone        string // canonical international form, e.g. "+35386..."
	PasswordHash string
	CreatedAt    time.Time
}

type UserStore interface {
	Create(ctx context.Context, rec UserRecord) error
	Get(ctx context.Context, id string) (*UserRecord, error)
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)
	GetByPhone(ctx context.Context, phone string) (*UserRecord, error)
	List(ctx context.Context) ([]UserRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
}
