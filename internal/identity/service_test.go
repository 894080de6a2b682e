package identity

import (
	"context"
	"errors"
	"testing"
)

func newRider(email, phone string) Principal {
	return Principal{
		Role:        RoleRider,
		FirstName:   "Asha",
		LastName:    "Rao",
		Email:       email,
		CountryCode: "+91",
		Phone:       phone,
		Gender:      "female",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 4)
	ctx := context.Background()

	p, err := svc.Register(ctx, newRider("asha@example.com", "9999999999"), "s3cret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected generated id")
	}
	if string(p.PasswordHash) == "s3cret" || len(p.PasswordHash) == 0 {
		t.Fatal("password was not hashed before persistence")
	}
}

func TestRegisterDuplicateIdentifier(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 4)
	ctx := context.Background()

	if _, err := svc.Register(ctx, newRider("asha@example.com", "9999999999"), "s3cret"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, newRider("asha@example.com", "8888888888"), "s3cret")
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists for duplicate email, got %v", err)
	}
	_, err = svc.Register(ctx, newRider("other@example.com", "9999999999"), "s3cret")
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists for duplicate phone, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 4)
	ctx := context.Background()

	if _, err := svc.Register(ctx, newRider("asha@example.com", "9999999999"), "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, RoleRider, "asha@example.com", "s3cret"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, RoleRider, "asha@example.com", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, RoleRider, "nobody@example.com", "s3cret"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for unknown email, got %v", err)
	}
}

func TestAuthenticateRejectsPasswordlessPrincipal(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 4)
	ctx := context.Background()

	captain := newRider("cap@example.com", "7777777777")
	captain.Role = RoleCaptain
	if _, err := svc.Register(ctx, captain, ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, RoleCaptain, "cap@example.com", ""); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for passwordless principal, got %v", err)
	}
}

func TestResolveByPhoneFallback(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 4)
	ctx := context.Background()

	rider := newRider("asha@example.com", "9999999999")
	if _, err := svc.Register(ctx, rider, "s3cret"); err != nil {
		t.Fatalf("register rider: %v", err)
	}
	captain := newRider("cap@example.com", "7777777777")
	captain.Role = RoleCaptain
	if _, err := svc.Register(ctx, captain, ""); err != nil {
		t.Fatalf("register captain: %v", err)
	}

	got, err := svc.ResolveByPhone(ctx, "9999999999")
	if err != nil {
		t.Fatalf("resolve rider: %v", err)
	}
	if got.Role != RoleRider {
		t.Fatalf("expected role %q, got %q", RoleRider, got.Role)
	}

	got, err = svc.ResolveByPhone(ctx, "7777777777")
	if err != nil {
		t.Fatalf("resolve captain: %v", err)
	}
	if got.Role != RoleCaptain {
		t.Fatalf("expected role %q, got %q", RoleCaptain, got.Role)
	}

	if _, err := svc.ResolveByPhone(ctx, "0000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
