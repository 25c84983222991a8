package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wakko59/Geata-api/internal/geata/store"
)

var (
	ErrDeviceNotFound     = errors.New("device not registered")
	ErrInvalidCommandType = errors.New("invalid command type")
)

const defaultDurationMs = 1000

// CommandService orchestrates the user-facing command path: policy check,
// event logging and enqueue.  The policy decision itself lives in
// AccessService; this service owns the side effects around it.
type CommandService struct {
	devices  store.DeviceStore
	commands store.CommandStore
	access   *AccessService
	events   *EventService
}

func NewCommandService(ds store.DeviceStore, cs store.CommandStore, access *AccessService, events *EventService) *CommandService {
	return &CommandService{devices: ds, commands: cs, access: access, events: events}
}

// Request handles an authenticated user's open/aux request.  A policy deny
// comes back as (nil, decision, nil) with the denial already logged; the
// caller maps it to a 403 without treating it as an error.
func (s *CommandService) Request(ctx context.Context, deviceID, userID, cmdType string, durationMs int64) (*store.CommandRecord, Decision, error) {
	cmdType, err := normalizeCommandType(cmdType)
	if err != nil {
		return nil, Decision{}, err
	}
	if durationMs <= 0 {
		durationMs = defaultDurationMs
	}

	dev, err := s.devices.Get(ctx, deviceID)
	if err != nil {
		return nil, Decision{}, err
	}
	if dev == nil {
		return nil, Decision{}, ErrDeviceNotFound
	}

	// Schedule slots are wall-clock windows in the server's local zone, so
	// the decision instant keeps its location.  Stored timestamps are
	// normalised to UTC by the stores.
	now := time.Now()
	dec, err := s.access.CanOperate(ctx, deviceID, userID, now)
	if err != nil {
		return nil, Decision{}, err
	}
	if !dec.Allowed {
		s.events.Append(ctx, deviceID, userID, denialEventType(cmdType, dec.Reason), "")
		return nil, dec, nil
	}

	cmd, err := s.enqueue(ctx, deviceID, userID, cmdType, durationMs, now)
	if err != nil {
		return nil, Decision{}, err
	}

	s.events.Append(ctx, deviceID, userID, requestEventType(cmdType),
		fmt.Sprintf("duration=%dms", durationMs))
	return cmd, dec, nil
}

// TestPulse enqueues an admin-triggered command with no requesting user and
// no policy check.  Used to exercise the hardware from the admin UI.
func (s *CommandService) TestPulse(ctx context.Context, deviceID, cmdType string, durationMs int64) (*store.CommandRecord, error) {
	cmdType, err := normalizeCommandType(cmdType)
	if err != nil {
		return nil, err
	}
	if durationMs <= 0 {
		durationMs = defaultDurationMs
	}

	dev, err := s.devices.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if dev == nil {
		return nil, ErrDeviceNotFound
	}

	cmd, err := s.enqueue(ctx, deviceID, "", cmdType, durationMs, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.events.Append(ctx, deviceID, "", EventCmdSimulated,
		fmt.Sprintf("%s test pulse duration=%dms", cmdType, durationMs))
	return cmd, nil
}

// Recent returns the newest commands across all devices, for admin review.
func (s *CommandService) Recent(ctx context.Context, limit int) ([]store.CommandRecord, error) {
	return s.commands.ListRecent(ctx, limit)
}

func (s *CommandService) enqueue(ctx context.Context, deviceID, userID, cmdType string, durationMs int64, now time.Time) (*store.CommandRecord, error) {
	rec := store.CommandRecord{
		ID:          "cmd_" + uuid.NewString(),
		DeviceID:    deviceID,
		UserID:      userID,
		Type:        cmdType,
		Status:      store.StatusQueued,
		RequestedAt: now,
		DurationMs:  durationMs,
	}
	if err := s.commands.Enqueue(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// normalizeCommandType defaults an empty type to OPEN and rejects anything
// outside the OPEN/AUX1/AUX2 vocabulary before any state mutation.
func normalizeCommandType(t string) (string, error) {
	if t == "" {
		return store.CommandOpen, nil
	}
	switch t {
	case store.CommandOpen, store.CommandAux1, store.CommandAux2:
		return t, nil
	}
	return "", ErrInvalidCommandType
}

func requestEventType(cmdType string) string {
	switch cmdType {
	case store.CommandAux1:
		return EventAux1Requested
	case store.CommandAux2:
		return EventAux2Requested
	default:
		return EventOpenRequested
	}
}

func denialEventType(cmdType, reason string) string {
	schedule := reason == ReasonScheduleDenied
	switch cmdType {
	case store.CommandAux1:
		if schedule {
			return EventAux1DeniedSchedule
		}
		return EventAux1DeniedNotAssigned
	case store.CommandAux2:
		if schedule {
			return EventAux2DeniedSchedule
		}
		return EventAux2DeniedNotAssigned
	default:
		if schedule {
			return EventAccessDeniedSchedule
		}
		return EventAccessDeniedNotAssigned
	}
}
