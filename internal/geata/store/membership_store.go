package store

import "context"

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// MembershipRecord grants a user a role on a device.  ScheduleID nil means
// unrestricted 24/7 access; a non-nil ScheduleID gates access by that
// schedule's slots.
type MembershipRecord struct {
	DeviceID   string
	UserID     string
	Role       string
	ScheduleID *int64
}

type MembershipStore interface {
	// Upsert attaches the user to the device.  Attaching an existing member
	// updates role and schedule assignment; there is never more than one row
	// per (device, user) pair.
	Upsert(ctx context.Context, rec MembershipRecord) error

	Get(ctx context.Context, deviceID, userID string) (*MembershipRecord, error)
	Delete(ctx context.Context, deviceID, userID string) (bool, error)
	ListByDevice(ctx context.Context, deviceID string) ([]MembershipRecord, error)
	ListByUser(ctx context.Context, userID string) ([]MembershipRecord, error)

	// SetScheduleAssignment updates only the schedule reference, creating the
	// membership with the operator role when it does not exist yet.
	SetScheduleAssignment(ctx context.Context, deviceID, userID string, scheduleID *int64) error
}
