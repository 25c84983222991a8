package types

// CommandRequest queues a hardware action.  Type defaults to OPEN and
// DurationMs to 1000 when omitted.
type CommandRequest struct {
	Type       string `json:"type,omitempty"`
	DurationMs int64  `json:"durationMs,omitempty"`
}

type CommandInfo struct {
	ID          string `json:"id"`
	DeviceID    string `json:"deviceId"`
	UserID      string `json:"userId,omitempty"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	RequestedAt string `json:"requestedAt"`
	CompletedAt string `json:"completedAt,omitempty"`
	Result      string `json:"result,omitempty"`
	DurationMs  int64  `json:"durationMs"`
}
