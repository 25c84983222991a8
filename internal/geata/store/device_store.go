package store

import (
	"context"
	"time"
)

type DeviceRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type DeviceStore interface {
	Create(ctx context.Context, rec DeviceRecord) error
	Get(ctx context.Context, id string) (*DeviceRecord, error)
	List(ctx context.Context) ([]DeviceRecord, error)
	Delete(ctx context.Context, id string) (bool, error)

	// SetSecret installs or rotates the shared secret a device must present
	// when polling.  GetSecret returns "" when no secret is configured.
	SetSecret(ctx context.Context, id, secret string) error
	GetSecret(ctx context.Context, id string) (string, error)
}
