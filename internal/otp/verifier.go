// Package otp issues and checks one-time codes behind a backend-agnostic
// contract. Two implementations exist: a redis-backed store used outside
// production, and a Twilio Verify client used in production. The deployment
// mode picks one at startup.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// Verifier is the one-time-code contract shared by both backends.
//
// Issue generates and dispatches a fresh code for the identifier,
// invalidating any prior live code. Backends that keep the code locally
// return it so non-production callers can hand it back to the client; the
// remote backend returns an empty string because the provider delivers the
// code out of band.
//
// Verify fails closed: a missing or expired code yields false, not an error.
//
// Consume discards the stored code after a terminal verification. It is
// idempotent.
type Verifier interface {
	Issue(ctx context.Context, phone string) (string, error)
	Verify(ctx context.Context, phone, code string) (bool, error)
	Consume(ctx context.Context, phone string) error
}

const (
	codeMin  = 100000
	codeSpan = 900000
)

// GenerateCode returns a uniformly random 6-digit code in [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}
