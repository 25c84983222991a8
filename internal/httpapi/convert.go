package httpapi

import (
	"time"

	"github.com/wakko59/Geata-api/internal/geata/store"
	"github.com/wakko59/Geata-api/internal/geata/types"
)

func userInfo(u store.UserRecord) types.UserInfo {
	return types.UserInfo{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
	}
}

func commandInfo(c store.CommandRecord) types.CommandInfo {
	info := types.CommandInfo{
		ID:          c.ID,
		DeviceID:    c.DeviceID,
		UserID:      c.UserID,
		Type:        c.Type,
		Status:      c.Status,
		RequestedAt: c.RequestedAt.UTC().Format(time.RFC3339),
		Result:      c.Result,
		DurationMs:  c.DurationMs,
	}
	if c.CompletedAt != nil {
		info.CompletedAt = c.CompletedAt.UTC().Format(time.RFC3339)
	}
	return info
}

func eventInfo(e store.EventRecord) types.EventInfo {
	return types.EventInfo{
		ID:        e.ID,
		DeviceID:  e.DeviceID,
		UserID:    e.UserID,
		EventType: e.EventType,
		At:        e.At.UTC().Format(time.RFC3339),
		Details:   e.Details,
	}
}
