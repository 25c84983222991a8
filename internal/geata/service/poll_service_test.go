package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/wakko59/Geata-api/internal/geata/service"
	"github.com/wakko59/Geata-api/internal/geata/store"
	"github.com/wakko59/Geata-api/internal/geata/types"
)

func TestPollRejectsMissingDeviceID(t *testing.T) {
	f := newFixture(t)

	_, err := f.poll.Poll(context.Background(), types.PollRequest{DeviceID: "   "})
	if !errors.Is(err, service.ErrInvalidDeviceID) {
		t.Fatalf("err = %v, want ErrInvalidDeviceID", err)
	}
}

func TestPollRejectsUnknownDevice(t *testing.T) {
	f := newFixture(t)

	_, err := f.poll.Poll(context.Background(), types.PollRequest{DeviceID: "ghost"})
	if !errors.Is(err, service.ErrDeviceNotFound) {
		t.Fatalf("err = %v, want ErrDeviceNotFound", err)
	}
}

func TestPollEnforcesDeviceSecret(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.devices.SetSecret(ctx, "gate1", "s3cret"); err != nil {
		t.Fatalf("SetSecret: %v", err)
	}

	if _, err := f.poll.Poll(ctx, types.PollRequest{DeviceID: "gate1"}); !errors.Is(err, service.ErrDeviceUnauthorized) {
		t.Fatalf("missing secret: err = %v, want ErrDeviceUnauthorized", err)
	}
	if _, err := f.poll.Poll(ctx, types.PollRequest{DeviceID: "gate1", Secret: "wrong"}); !errors.Is(err, service.ErrDeviceUnauthorized) {
		t.Fatalf("wrong secret: err = %v, want ErrDeviceUnauthorized", err)
	}
	if _, err := f.poll.Poll(ctx, types.PollRequest{DeviceID: "gate1", Secret: "s3cret"}); err != nil {
		t.Fatalf("correct secret: %v", err)
	}
}

func TestPollDeliversQueuedCommands(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attach(t, "gate1", "u_1", nil)

	cmd, _, err := f.commands.Request(ctx, "gate1", "u_1", store.CommandOpen, 2000)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	resp, err := f.poll.Poll(ctx, types.PollRequest{DeviceID: "gate1"})
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(resp.Commands) != 1 {
		t.Fatalf("commands = %+v, want 1", resp.Commands)
	}
	got := resp.Commands[0]
	if got.CommandID != cmd.ID || got.Type != store.CommandOpen || got.DurationMs != 2000 {
		t.Fatalf("command = %+v", got)
	}

	// Until the device reports a result, re-polling redelivers.
	resp, err = f.poll.Poll(ctx, types.PollRequest{DeviceID: "gate1"})
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(resp.Commands) != 1 {
		t.Fatalf("redelivery: commands = %+v, want 1", resp.Commands)
	}
}

func TestPollCompletionExcludedFromSameResponse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attach(t, "gate1", "u_1", nil)

	cmd, _, err := f.commands.Request(ctx, "gate1", "u_1", store.CommandOpen, 0)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	resp, err := f.poll.Poll(ctx, types.PollRequest{
		DeviceID:    "gate1",
		LastResults: []types.CommandResult{{CommandID: cmd.ID, Result: "done"}},
	})
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(resp.Commands) != 0 {
		t.Fatalf("completed command reappeared: %+v", resp.Commands)
	}

	var completed *store.EventRecord
	for _, ev := range f.eventRows.Events() {
		if ev.EventType == service.EventCmdCompleted {
			ev := ev
			completed = &ev
		}
	}
	if completed == nil {
		t.Fatal("no CMD_COMPLETED event recorded")
	}
	if completed.Details != "OPEN result=done" {
		t.Fatalf("details = %q", completed.Details)
	}
	if completed.UserID != "u_1" {
		t.Fatalf("completion attributed to %q, want original requester", completed.UserID)
	}
}

func TestPollDuplicateCompletionIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attach(t, "gate1", "u_1", nil)

	cmd, _, err := f.commands.Request(ctx, "gate1", "u_1", store.CommandOpen, 0)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	// At-least-once delivery: the same result may arrive on two polls.
	for i := 0; i < 2; i++ {
		if _, err := f.poll.Poll(ctx, types.PollRequest{
			DeviceID:    "gate1",
			LastResults: []types.CommandResult{{CommandID: cmd.ID, Result: "done"}},
		}); err != nil {
			t.Fatalf("Poll %d: %v", i, err)
		}
	}

	var completions int
	for _, ev := range f.eventRows.Events() {
		if ev.EventType == service.EventCmdCompleted {
			completions++
		}
	}
	if completions != 1 {
		t.Fatalf("CMD_COMPLETED count = %d, want 1", completions)
	}
}

func TestPollEmptyResultDefaultsUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attach(t, "gate1", "u_1", nil)

	cmd, _, err := f.commands.Request(ctx, "gate1", "u_1", store.CommandAux1, 0)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	if _, err := f.poll.Poll(ctx, types.PollRequest{
		DeviceID:    "gate1",
		LastResults: []types.CommandResult{{CommandID: cmd.ID}},
	}); err != nil {
		t.Fatalf("Poll: %v", err)
	}

	for _, ev := range f.eventRows.Events() {
		if ev.EventType == service.EventCmdCompleted {
			if ev.Details != "AUX1 result=unknown" {
				t.Fatalf("details = %q", ev.Details)
			}
			return
		}
	}
	t.Fatal("no CMD_COMPLETED event recorded")
}

func TestPollCannotCompleteForeignCommand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.devices.Create(ctx, store.DeviceRecord{ID: "gate2", Name: "Side Gate"}); err != nil {
		t.Fatalf("seed device: %v", err)
	}
	f.attach(t, "gate2", "u_1", nil)

	cmd, _, err := f.commands.Request(ctx, "gate2", "u_1", store.CommandOpen, 0)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	// gate1 reports a result for gate2's command; it must stay queued.
	if _, err := f.poll.Poll(ctx, types.PollRequest{
		DeviceID:    "gate1",
		LastResults: []types.CommandResult{{CommandID: cmd.ID, Result: "done"}},
	}); err != nil {
		t.Fatalf("Poll: %v", err)
	}

	queued, err := f.commandRows.Drain(ctx, "gate2")
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(queued) != 1 || queued[0].Status != store.StatusQueued {
		t.Fatalf("gate2 queue = %+v, want original queued command", queued)
	}
	for _, ev := range f.eventRows.Events() {
		if ev.EventType == service.EventCmdCompleted {
			t.Fatal("foreign completion must not produce a CMD_COMPLETED event")
		}
	}
}

func TestPollSkipsBlankResultEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.poll.Poll(ctx, types.PollRequest{
		DeviceID:    "gate1",
		LastResults: []types.CommandResult{{CommandID: "  "}, {CommandID: ""}},
	})
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(resp.Commands) != 0 {
		t.Fatalf("commands = %+v, want none", resp.Commands)
	}
}
