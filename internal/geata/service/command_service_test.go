package service_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/wakko59/Geata-api/internal/geata/service"
	"github.com/wakko59/Geata-api/internal/geata/store"
	"github.com/wakko59/Geata-api/internal/geata/store/memory"
)

// fixture wires the full service stack over in-memory stores with one
// registered device ("gate1").
type fixture struct {
	devices     *memory.DeviceStore
	users       *memory.UserStore
	memberships *memory.MembershipStore
	schedules   *memory.ScheduleStore
	commandRows *memory.CommandStore
	eventRows   *memory.EventStore

	events   *service.EventService
	access   *service.AccessService
	commands *service.CommandService
	poll     *service.PollService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		devices:     memory.NewDeviceStore(),
		users:       memory.NewUserStore(),
		memberships: memory.NewMembershipStore(),
		schedules:   memory.NewScheduleStore(),
		commandRows: memory.NewCommandStore(),
		eventRows:   memory.NewEventStore(),
	}
	f.devices.CascadeTo(f.memberships, f.commandRows)
	f.users.CascadeTo(f.memberships)

	logger := log.New(io.Discard, "", 0)
	f.events = service.NewEventService(f.eventRows, logger, nil)
	f.access = service.NewAccessService(f.memberships, f.schedules)
	f.commands = service.NewCommandService(f.devices, f.commandRows, f.access, f.events)
	f.poll = service.NewPollService(f.devices, f.commandRows, f.events)

	if err := f.devices.Create(context.Background(), store.DeviceRecord{ID: "gate1", Name: "Main Gate"}); err != nil {
		t.Fatalf("seed device: %v", err)
	}
	return f
}

func (f *fixture) attach(t *testing.T, deviceID, userID string, scheduleID *int64) {
	t.Helper()
	err := f.memberships.Upsert(context.Background(), store.MembershipRecord{
		DeviceID: deviceID, UserID: userID, Role: store.RoleOperator, ScheduleID: scheduleID,
	})
	if err != nil {
		t.Fatalf("attach %s to %s: %v", userID, deviceID, err)
	}
}

func (f *fixture) eventTypes() []string {
	var out []string
	for _, ev := range f.eventRows.Events() {
		out = append(out, ev.EventType)
	}
	return out
}

func TestRequestUnknownDevice(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.commands.Request(context.Background(), "nope", "u_1", "", 0)
	if !errors.Is(err, service.ErrDeviceNotFound) {
		t.Fatalf("err = %v, want ErrDeviceNotFound", err)
	}
}

func TestRequestInvalidType(t *testing.T) {
	f := newFixture(t)
	f.attach(t, "gate1", "u_1", nil)

	_, _, err := f.commands.Request(context.Background(), "gate1", "u_1", "SELF_DESTRUCT", 0)
	if !errors.Is(err, service.ErrInvalidCommandType) {
		t.Fatalf("err = %v, want ErrInvalidCommandType", err)
	}
	if evs := f.eventRows.Events(); len(evs) != 0 {
		t.Fatalf("expected no events for rejected input, got %v", f.eventTypes())
	}
}

func TestRequestDeniedNotAssigned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cmd, dec, err := f.commands.Request(ctx, "gate1", "u_1", "", 0)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if cmd != nil {
		t.Fatal("expected no command on deny")
	}
	if dec.Allowed || dec.Reason != service.ReasonNotAssigned {
		t.Fatalf("decision = %+v, want deny/NOT_ASSIGNED", dec)
	}

	queued, err := f.commandRows.Drain(ctx, "gate1")
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(queued) != 0 {
		t.Fatalf("queue should be empty after deny, got %d", len(queued))
	}

	evs := f.eventRows.Events()
	if len(evs) != 1 || evs[0].EventType != service.EventAccessDeniedNotAssigned {
		t.Fatalf("events = %v, want one ACCESS_DENIED_NOT_ASSIGNED", f.eventTypes())
	}
	if evs[0].UserID != "u_1" || evs[0].DeviceID != "gate1" {
		t.Fatalf("event attribution wrong: %+v", evs[0])
	}
}

func TestRequestAllowedQueuesCommand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attach(t, "gate1", "u_1", nil)

	cmd, dec, err := f.commands.Request(ctx, "gate1", "u_1", "", 0)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if cmd == nil {
		t.Fatalf("expected command, decision = %+v", dec)
	}
	if cmd.Type != store.CommandOpen {
		t.Fatalf("type = %q, want OPEN default", cmd.Type)
	}
	if cmd.DurationMs != 1000 {
		t.Fatalf("durationMs = %d, want 1000 default", cmd.DurationMs)
	}
	if cmd.Status != store.StatusQueued {
		t.Fatalf("status = %q, want queued", cmd.Status)
	}

	queued, err := f.commandRows.Drain(ctx, "gate1")
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(queued) != 1 || queued[0].ID != cmd.ID {
		t.Fatalf("queue = %+v, want the one new command", queued)
	}

	evs := f.eventRows.Events()
	if len(evs) != 1 || evs[0].EventType != service.EventOpenRequested {
		t.Fatalf("events = %v, want one OPEN_REQUESTED", f.eventTypes())
	}
	if evs[0].Details != "duration=1000ms" {
		t.Fatalf("details = %q", evs[0].Details)
	}
}

func TestRequestAuxDeniedBySchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// An empty schedule is an explicit lock-out.
	id, err := f.schedules.Create(ctx, "locked", "", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.attach(t, "gate1", "u_1", &id)

	cmd, dec, err := f.commands.Request(ctx, "gate1", "u_1", store.CommandAux1, 500)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if cmd != nil || dec.Reason != service.ReasonScheduleDenied {
		t.Fatalf("cmd = %v, decision = %+v, want schedule deny", cmd, dec)
	}

	evs := f.eventRows.Events()
	if len(evs) != 1 || evs[0].EventType != service.EventAux1DeniedSchedule {
		t.Fatalf("events = %v, want one AUX1_DENIED_SCHEDULE", f.eventTypes())
	}
}

func TestTestPulseSkipsPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No membership at all; test pulses are an admin-side hardware check.
	cmd, err := f.commands.TestPulse(ctx, "gate1", store.CommandAux2, 250)
	if err != nil {
		t.Fatalf("TestPulse: %v", err)
	}
	if cmd.UserID != "" {
		t.Fatalf("userID = %q, want empty for test pulse", cmd.UserID)
	}
	if cmd.Type != store.CommandAux2 || cmd.DurationMs != 250 {
		t.Fatalf("command = %+v", cmd)
	}

	evs := f.eventRows.Events()
	if len(evs) != 1 || evs[0].EventType != service.EventCmdSimulated {
		t.Fatalf("events = %v, want one CMD_SIMULATED", f.eventTypes())
	}
	if evs[0].Details != "AUX2 test pulse duration=250ms" {
		t.Fatalf("details = %q", evs[0].Details)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attach(t, "gate1", "u_1", nil)

	first, _, err := f.commands.Request(ctx, "gate1", "u_1", store.CommandOpen, 0)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	second, _, err := f.commands.Request(ctx, "gate1", "u_1", store.CommandAux1, 0)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	recent, err := f.commands.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].ID != second.ID || recent[1].ID != first.ID {
		t.Fatalf("order wrong: got %s then %s", recent[0].ID, recent[1].ID)
	}
}
