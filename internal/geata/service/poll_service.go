package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wakko59/Geata-api/internal/geata/store"
	"github.com/wakko59/Geata-api/internal/geata/types"
)

var (
	ErrInvalidDeviceID    = errors.New("deviceId is required")
	ErrDeviceUnauthorized = errors.New("unauthorized device")
)

// PollService implements the pull-based exchange with field controllers.
// The controller has no inbound connectivity: it posts results for commands
// it received on a previous poll and collects whatever is queued now.
// Delivery is at-least-once, so duplicate and late reports must be harmless.
type PollService struct {
	devices  store.DeviceStore
	commands store.CommandStore
	events   *EventService
}

func NewPollService(ds store.DeviceStore, cs store.CommandStore, events *EventService) *PollService {
	return &PollService{devices: ds, commands: cs, events: events}
}

// Poll validates the device, applies prior results, then returns the queue
// snapshot.  Completions are processed before the snapshot is taken, so a
// command completed in this call never reappears in this call's response.
func (s *PollService) Poll(ctx context.Context, req types.PollRequest) (types.PollResponse, error) {
	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		return types.PollResponse{}, ErrInvalidDeviceID
	}

	dev, err := s.devices.Get(ctx, deviceID)
	if err != nil {
		return types.PollResponse{}, err
	}
	if dev == nil {
		return types.PollResponse{}, ErrDeviceNotFound
	}

	// Devices with a configured secret must present it; others are trusted
	// on the deviceId claim alone.
	stored, err := s.devices.GetSecret(ctx, deviceID)
	if err != nil {
		return types.PollResponse{}, err
	}
	if stored != "" && !safeCompare(stored, req.Secret) {
		return types.PollResponse{}, ErrDeviceUnauthorized
	}

	now := time.Now().UTC()
	for _, r := range req.LastResults {
		// Malformed entries are skipped, not fatal: at-least-once delivery
		// means the device may resend garbage alongside valid reports.
		if strings.TrimSpace(r.CommandID) == "" {
			continue
		}
		result := r.Result
		if result == "" {
			result = "unknown"
		}

		cmd, err := s.commands.Complete(ctx, deviceID, r.CommandID, result, now)
		if err != nil {
			return types.PollResponse{}, err
		}
		if cmd == nil {
			// Unknown, foreign or already-completed command: deliberate
			// silent tolerance for duplicate and late reports.
			continue
		}

		s.events.Append(ctx, deviceID, cmd.UserID, EventCmdCompleted,
			fmt.Sprintf("%s result=%s", cmd.Type, result))
	}

	queued, err := s.commands.Drain(ctx, deviceID)
	if err != nil {
		return types.PollResponse{}, err
	}

	resp := types.PollResponse{Commands: make([]types.PollCommand, 0, len(queued))}
	for _, c := range queued {
		resp.Commands = append(resp.Commands, types.PollCommand{
			CommandID:  c.ID,
			Type:       c.Type,
			DurationMs: c.DurationMs,
		})
	}
	return resp, nil
}

func safeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
