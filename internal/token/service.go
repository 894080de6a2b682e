// Package token issues and validates signed session tokens and maintains the
// revocation set used to invalidate tokens before their natural expiry.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gocab/gocab/internal/identity"
)

var (
	// ErrExpired is returned when a token's expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrMalformed is returned when a token's structure or signature is invalid.
	ErrMalformed = errors.New("token malformed")
	// ErrRevoked is returned when a token appears in the revocation set.
	ErrRevoked = errors.New("token revoked")
)

// Claims is the signed claim set embedded in every session token.
type Claims struct {
	Role identity.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service signs, verifies, and revokes session tokens. The signing key is
// process-wide configuration and never appears in the token itself.
type Service struct {
	secret []byte
	ttl    time.Duration
	store  RevocationStore
	now    func() time.Time
}

// NewService builds a token service with the given signing secret, validity
// window, and revocation backend.
func NewService(secret string, ttl time.Duration, store RevocationStore) *Service {
	return &Service{secret: []byte(secret), ttl: ttl, store: store, now: time.Now}
}

// WithClock overrides the service clock. Tests use this to cross the expiry
// instant without sleeping.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Issue produces a signed token embedding the principal id and role, valid
// for the configured window.
func (s *Service) Issue(principalID string, role identity.Role) (string, error) {
	issued := s.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the revocation set, then signature and expiry, and returns
// the decoded claims. The revocation lookup runs first so a known-bad token
// is rejected before any signature work.
func (s *Service) Verify(ctx context.Context, raw string) (*Claims, error) {
	revoked, err := s.store.IsRevoked(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}

	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	return claims, nil
}

// Revoke inserts the token into the revocation set with a TTL equal to its
// remaining validity, so the entry vanishes exactly when the token would have
// expired anyway. Only a structural decode is needed to read the expiry;
// revoking an already-expired or undecodable token is a no-op.
func (s *Service) Revoke(ctx context.Context, raw string) error {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	remaining := claims.ExpiresAt.Time.Sub(s.now())
	if remaining <= 0 {
		return nil
	}
	if err := s.store.Revoke(ctx, raw, remaining); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
