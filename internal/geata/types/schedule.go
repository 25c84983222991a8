package types

import "github.com/wakko59/Geata-api/internal/geata/schedule"

type ScheduleRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Slots       []schedule.Slot `json:"slots,omitempty"`
}

type CreateScheduleResponse struct {
	ID int64 `json:"id"`
}
