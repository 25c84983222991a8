package service

import (
	"context"
	"time"

	"github.com/wakko59/Geata-api/internal/geata/schedule"
	"github.com/wakko59/Geata-api/internal/geata/store"
)

// Denial and allow reason codes returned by CanOperate.  The caller logs
// denials; the reason must never leak schedule contents to the requester.
const (
	ReasonAlways         = "ALWAYS"
	ReasonNotAssigned    = "NOT_ASSIGNED"
	ReasonScheduleDenied = "SCHEDULE_DENIED"
)

// Decision is the outcome of an access check.  A deny is a normal return
// value, never an error; errors are reserved for storage failures.
type Decision struct {
	Allowed bool
	Reason  string
}

// AccessService answers "may this user operate this device right now?".
// It is side-effect free: the caller is responsible for logging the outcome
// as an event.
type AccessService struct {
	memberships store.MembershipStore
	schedules   store.ScheduleStore
}

func NewAccessService(ms store.MembershipStore, ss store.ScheduleStore) *AccessService {
	return &AccessService{memberships: ms, schedules: ss}
}

// CanOperate evaluates membership and schedule for the given instant.
//
// No membership denies with NOT_ASSIGNED.  A membership without a schedule
// reference allows unconditionally (24/7).  A dangling or empty schedule
// denies with SCHEDULE_DENIED — an empty schedule is an explicit "no access"
// policy and never silently allows.
func (s *AccessService) CanOperate(ctx context.Context, deviceID, userID string, now time.Time) (Decision, error) {
	m, err := s.memberships.Get(ctx, deviceID, userID)
	if err != nil {
		return Decision{}, err
	}
	if m == nil {
		return Decision{Allowed: false, Reason: ReasonNotAssigned}, nil
	}

	if m.ScheduleID == nil {
		return Decision{Allowed: true, Reason: ReasonAlways}, nil
	}

	sched, err := s.schedules.Get(ctx, *m.ScheduleID)
	if err != nil {
		return Decision{}, err
	}
	if sched == nil || !schedule.IsScheduleActive(*sched, now) {
		return Decision{Allowed: false, Reason: ReasonScheduleDenied}, nil
	}

	return Decision{Allowed: true, Reason: ReasonAlways}, nil
}
