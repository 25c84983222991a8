package types

type EventInfo struct {
	ID        int64  `json:"id"`
	DeviceID  string `json:"deviceId"`
	UserID    string `json:"userId,omitempty"`
	EventType string `json:"eventType"`
	At        string `json:"at"`
	Details   string `json:"details,omitempty"`
}

type PurgeEventsRequest struct {
	OlderThanDays int `json:"olderThanDays"`
}

type PurgeEventsResponse struct {
	Deleted int64 `json:"deleted"`
}
