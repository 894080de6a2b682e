package token

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/gocab/gocab/internal/identity"
)

func newTestService(t *testing.T, ttl time.Duration) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewService("jwt-test-secret", ttl, NewRedisRevocations(client)), mr
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc, _ := newTestService(t, 7*24*time.Hour)
	ctx := context.Background()

	raw, err := svc.Issue("principal-1", identity.RoleRider)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Verify(ctx, raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "principal-1" {
		t.Fatalf("expected subject principal-1, got %q", claims.Subject)
	}
	if claims.Role != identity.RoleRider {
		t.Fatalf("expected role %q, got %q", identity.RoleRider, claims.Role)
	}
}

func TestVerifyAfterExpiry(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	issued := time.Now()
	svc.WithClock(func() time.Time { return issued })
	raw, err := svc.Issue("principal-1", identity.RoleRider)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.WithClock(func() time.Time { return issued.Add(2 * time.Hour) })
	if _, err := svc.Verify(ctx, raw); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	if _, err := svc.Verify(ctx, "not.a.token"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}

	// Token signed with a different secret.
	other := NewService("another-secret", time.Hour, svc.store)
	raw, err := other.Issue("principal-1", identity.RoleRider)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Verify(ctx, raw); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for bad signature, got %v", err)
	}
}

func TestRevokeThenVerify(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	raw, err := svc.Issue("principal-1", identity.RoleCaptain)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := svc.Revoke(ctx, raw); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Verify(ctx, raw); !errors.Is(err, ErrRevoked) {
		t.Fatalf("expected ErrRevoked, got %v", err)
	}
}

func TestRevocationEntryExpiresWithToken(t *testing.T) {
	svc, mr := newTestService(t, time.Minute)
	ctx := context.Background()

	raw, err := svc.Issue("principal-1", identity.RoleRider)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := svc.Revoke(ctx, raw); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	// Once the token's own validity lapses the revocation entry is gone and
	// verification fails on expiry, not revocation.
	mr.FastForward(2 * time.Minute)
	svc.WithClock(func() time.Time { return time.Now().Add(2 * time.Minute) })
	if _, err := svc.Verify(ctx, raw); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired after entry lapsed, got %v", err)
	}
}

func TestRevokeExpiredTokenIsNoOp(t *testing.T) {
	svc, mr := newTestService(t, time.Hour)
	ctx := context.Background()

	issued := time.Now()
	svc.WithClock(func() time.Time { return issued })
	raw, err := svc.Issue("principal-1", identity.RoleRider)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.WithClock(func() time.Time { return issued.Add(2 * time.Hour) })
	if err := svc.Revoke(ctx, raw); err != nil {
		t.Fatalf("revoke expired: %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected empty revocation set, got keys %v", mr.Keys())
	}
}

func TestRevokeGarbageIsNoOp(t *testing.T) {
	svc, mr := newTestService(t, time.Hour)

	if err := svc.Revoke(context.Background(), "not-a-token"); err != nil {
		t.Fatalf("revoke garbage: %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected empty revocation set, got keys %v", mr.Keys())
	}
}
