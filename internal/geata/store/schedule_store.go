package store

import (
	"context"

	"github.com/wakko59/Geata-api/internal/geata/schedule"
)

type ScheduleStore interface {
	Create(ctx context.Context, name, description string, slots []schedule.Slot) (int64, error)
	Get(ctx context.Context, id int64) (*schedule.Schedule, error)
	List(ctx context.Context) ([]schedule.Schedule, error)

	// Update replaces name, description and the full slot list.  Returns
	// false when the schedule does not exist.
	Update(ctx context.Context, id int64, name, description string, slots []schedule.Slot) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
