package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wakko59/Geata-api/internal/geata/service"
	"github.com/wakko59/Geata-api/internal/geata/store/memory"
)

func newAuthService() *service.AuthService {
	return service.NewAuthService(memory.NewUserStore(), "test-secret", time.Hour, "+353")
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService()

	token, user, err := auth.Register(ctx, "Ada", "", "086 123 4567", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !strings.HasPrefix(user.ID, "u_") {
		t.Fatalf("user id = %q", user.ID)
	}
	if user.Phone != "+353861234567" {
		t.Fatalf("phone = %q, want normalised form", user.Phone)
	}

	gotID, err := auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if gotID != user.ID {
		t.Fatalf("token user = %q, want %q", gotID, user.ID)
	}

	// Login with the raw, unnormalised phone spelling.
	_, loggedIn, err := auth.Login(ctx, "", "086-123-4567", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login resolved %q, want %q", loggedIn.ID, user.ID)
	}
}

func TestRegisterRequiresCredentials(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService()

	if _, _, err := auth.Register(ctx, "Ada", "", "", "hunter2"); !errors.Is(err, service.ErrCredentialsRequired) {
		t.Fatalf("no identifier: err = %v", err)
	}
	if _, _, err := auth.Register(ctx, "Ada", "ada@example.com", "", ""); !errors.Is(err, service.ErrCredentialsRequired) {
		t.Fatalf("no password: err = %v", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService()

	if _, _, err := auth.Register(ctx, "Ada", "", "0861234567", "hunter2"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	// Same number, different spelling.
	_, _, err := auth.Register(ctx, "Eve", "", "+353 86 123 4567", "hunter3")
	if !errors.Is(err, service.ErrUserExists) {
		t.Fatalf("err = %v, want ErrUserExists", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService()

	if _, _, err := auth.Register(ctx, "Ada", "ada@example.com", "", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, err := auth.Login(ctx, "ada@example.com", "", "wrong")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestProvisionedUserCannotLogin(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService()

	user, err := auth.Provision(ctx, "", "bob@example.com", "")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if user.Name != "bob@example.com" {
		t.Fatalf("name = %q, want email fallback", user.Name)
	}

	_, _, err = auth.Login(ctx, "bob@example.com", "", "anything")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	auth := newAuthService()

	if _, err := auth.VerifyToken("not-a-token"); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("garbage: err = %v", err)
	}

	other := service.NewAuthService(memory.NewUserStore(), "other-secret", time.Hour, "+353")
	token, err := other.SignToken("u_x")
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	if _, err := auth.VerifyToken(token); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("wrong secret: err = %v", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	expired := service.NewAuthService(memory.NewUserStore(), "test-secret", -time.Minute, "+353")
	token, err := expired.SignToken("u_x")
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	if _, err := expired.VerifyToken(token); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
