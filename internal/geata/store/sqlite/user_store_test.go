package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/wakko59/Geata-api/internal/geata/store"
	"github.com/wakko59/Geata-api/internal/geata/store/sqlite"
)

func TestUserLookupsAndDuplicates(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)

	us := sqlite.NewUserStore(conn, w)
	ctx := context.Background()

	if err := us.Create(ctx, store.UserRecord{
		ID: "u_1", Name: "Ada", Email: "ada@example.com", Phone: "+353861234567",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Users with no email or phone at all are fine: NULLs don't collide on
	// the UNIQUE constraints.
	if err := us.Create(ctx, store.UserRecord{ID: "u_2", Name: "Blank A"}); err != nil {
		t.Fatalf("Create blank: %v", err)
	}
	if err := us.Create(ctx, store.UserRecord{ID: "u_3", Name: "Blank B"}); err != nil {
		t.Fatalf("Create blank: %v", err)
	}

	err := us.Create(ctx, store.UserRecord{ID: "u_4", Name: "Eve", Email: "ada@example.com"})
	if !errors.Is(err, store.ErrExists) {
		t.Fatalf("duplicate email: err = %v, want ErrExists", err)
	}
	err = us.Create(ctx, store.UserRecord{ID: "u_5", Name: "Eve", Phone: "+353861234567"})
	if !errors.Is(err, store.ErrExists) {
		t.Fatalf("duplicate phone: err = %v, want ErrExists", err)
	}

	byEmail, err := us.GetByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != "u_1" {
		t.Fatalf("byEmail = %+v", byEmail)
	}

	byPhone, err := us.GetByPhone(ctx, "+353861234567")
	if err != nil {
		t.Fatalf("GetByPhone: %v", err)
	}
	if byPhone == nil || byPhone.ID != "u_1" {
		t.Fatalf("byPhone = %+v", byPhone)
	}

	missing, err := us.GetByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetByEmail missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("missing = %+v, want nil", missing)
	}

	all, err := us.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
}
