package memory_test

import (
	"context"
	"testing"

	"github.com/wakko59/Geata-api/internal/geata/store"
	"github.com/wakko59/Geata-api/internal/geata/store/memory"
)

// Deleting a device must take its memberships and queued commands with it,
// exactly as the sqlite schema's foreign keys do.
func TestDeviceDeleteCascades(t *testing.T) {
	ctx := context.Background()

	devices := memory.NewDeviceStore()
	memberships := memory.NewMembershipStore()
	commands := memory.NewCommandStore()
	devices.CascadeTo(memberships, commands)

	if err := devices.Create(ctx, store.DeviceRecord{ID: "gate1", Name: "Main Gate"}); err != nil {
		t.Fatalf("create device: %v", err)
	}
	if err := devices.Create(ctx, store.DeviceRecord{ID: "gate2", Name: "Side Gate"}); err != nil {
		t.Fatalf("create device: %v", err)
	}
	for _, deviceID := range []string{"gate1", "gate2"} {
		err := memberships.Upsert(ctx, store.MembershipRecord{
			DeviceID: deviceID, UserID: "u_1", Role: store.RoleOperator,
		})
		if err != nil {
			t.Fatalf("upsert membership: %v", err)
		}
		err = commands.Enqueue(ctx, store.CommandRecord{
			ID: "cmd-" + deviceID, DeviceID: deviceID, UserID: "u_1",
			Type: store.CommandOpen, DurationMs: 1000,
		})
		if err != nil {
			t.Fatalf("enqueue command: %v", err)
		}
	}

	ok, err := devices.Delete(ctx, "gate1")
	if err != nil || !ok {
		t.Fatalf("delete device: ok=%v err=%v", ok, err)
	}

	if rec, err := memberships.Get(ctx, "gate1", "u_1"); err != nil || rec != nil {
		t.Fatalf("membership survived device delete: rec=%+v err=%v", rec, err)
	}
	if queued, err := commands.Drain(ctx, "gate1"); err != nil || len(queued) != 0 {
		t.Fatalf("commands survived device delete: %+v err=%v", queued, err)
	}

	// The other device's rows are untouched.
	if rec, err := memberships.Get(ctx, "gate2", "u_1"); err != nil || rec == nil {
		t.Fatalf("unrelated membership lost: rec=%+v err=%v", rec, err)
	}
	if queued, err := commands.Drain(ctx, "gate2"); err != nil || len(queued) != 1 {
		t.Fatalf("unrelated commands lost: %+v err=%v", queued, err)
	}
}

func TestUserDeleteCascadesMemberships(t *testing.T) {
	ctx := context.Background()

	users := memory.NewUserStore()
	memberships := memory.NewMembershipStore()
	users.CascadeTo(memberships)

	if err := users.Create(ctx, store.UserRecord{ID: "u_1", Name: "Ada"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	err := memberships.Upsert(ctx, store.MembershipRecord{
		DeviceID: "gate1", UserID: "u_1", Role: store.RoleOperator,
	})
	if err != nil {
		t.Fatalf("upsert membership: %v", err)
	}

	ok, err := users.Delete(ctx, "u_1")
	if err != nil || !ok {
		t.Fatalf("delete user: ok=%v err=%v", ok, err)
	}
	if rec, err := memberships.Get(ctx, "gate1", "u_1"); err != nil || rec != nil {
		t.Fatalf("membership survived user delete: rec=%+v err=%v", rec, err)
	}
}
