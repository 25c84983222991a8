package types

// PollRequest is what a field controller posts on its poll interval.  Secret
// is only required for devices with a configured shared secret.
type PollRequest struct {
	DeviceID    string          `json:"deviceId"`
	Secret      string          `json:"secret,omitempty"`
	LastResults []CommandResult `json:"lastResults,omitempty"`
}

// CommandResult reports the outcome of a command received on a prior poll.
type CommandResult struct {
	CommandID string `json:"commandId"`
	Result    string `json:"result,omitempty"`
}

type PollResponse struct {
	Commands []PollCommand `json:"commands"`
}

// PollCommand is the device-facing projection of a queued command.  Internal
// fields (status, requestedAt, user) are deliberately not exposed.
type PollCommand struct {
	CommandID  string `json:"commandId"`
	Type       string `json:"type"`
	DurationMs int64  `json:"durationMs"`
}
