package service

import (
	"context"
	"log"
	"time"

	"github.com/wakko59/Geata-api/internal/geata/store"
)

// Event type vocabulary.  Reporting and notification collaborators key off
// these strings, so they are stable API.
const (
	EventOpenRequested = "OPEN_REQUESTED"
	EventAux1Requested = "AUX1_REQUESTED"
	EventAux2Requested = "AUX2_REQUESTED"

	EventAccessDeniedNotAssigned = "ACCESS_DENIED_NOT_ASSIGNED"
	EventAccessDeniedSchedule    = "ACCESS_DENIED_SCHEDULE"
	EventAux1DeniedNotAssigned   = "AUX1_DENIED_NOT_ASSIGNED"
	EventAux1DeniedSchedule      = "AUX1_DENIED_SCHEDULE"
	EventAux2DeniedNotAssigned   = "AUX2_DENIED_NOT_ASSIGNED"
	EventAux2DeniedSchedule      = "AUX2_DENIED_SCHEDULE"

	EventCmdCompleted = "CMD_COMPLETED"
	EventCmdSimulated = "CMD_SIMULATED"
)

// maxEventQueryLimit caps QueryEvents regardless of what the caller asks for.
const maxEventQueryLimit = 1000

// Notifier receives every appended event for fan-out (alert emails, push).
// Implementations must not block; delivery outcome is ignored by the core.
type Notifier interface {
	Notify(ev store.EventRecord)
}

// EventService is the append-only audit log.  Append is best-effort: a
// failed audit write is logged but never fails the triggering operation.
type EventService struct {
	store    store.EventStore
	logger   *log.Logger
	notifier Notifier
}

func NewEventService(es store.EventStore, logger *log.Logger, notifier Notifier) *EventService {
	return &EventService{store: es, logger: logger, notifier: notifier}
}

// Append records an event.  userID and details may be empty.
func (s *EventService) Append(ctx context.Context, deviceID, userID, eventType, details string) {
	rec := store.EventRecord{
		DeviceID:  deviceID,
		UserID:    userID,
		EventType: eventType,
		At:        time.Now().UTC(),
		Details:   details,
	}

	if err := s.store.Append(ctx, rec); err != nil {
		s.logger.Printf("event append failed (%s %s): %v", deviceID, eventType, err)
		return
	}

	if s.notifier != nil {
		// Fire-and-forget: notification delivery never blocks the caller.
		go s.notifier.Notify(rec)
	}
}

// Query returns events newest-first.  The limit is defaulted to 100 and
// capped at maxEventQueryLimit.
func (s *EventService) Query(ctx context.Context, f store.EventFilter) ([]store.EventRecord, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Limit > maxEventQueryLimit {
		f.Limit = maxEventQueryLimit
	}
	return s.store.Query(ctx, f)
}

// PurgeOlderThan deletes events older than the given number of days.
func (s *EventService) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	return s.store.PruneOlderThan(ctx, cutoff)
}
