package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned when an email/password pair does not match a
// stored principal. Callers should not distinguish "unknown email" from
// "wrong password".
var ErrBadCredentials = errors.New("invalid email or password")

// Service owns principal creation and credential verification. Password
// hashing happens here, before persistence, so plaintext secrets never reach
// a repository.
type Service struct {
	repo Repository
	cost int
}

// NewService creates an identity service. cost is the bcrypt work factor.
func NewService(repo Repository, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, cost: cost}
}

// Register persists a new principal. An empty password is allowed (captains
// register without one and authenticate by OTP); otherwise the password is
// bcrypt-hashed before the principal is stored. Duplicate identifiers surface
// as ErrExists from the store's uniqueness constraint.
func (s *Service) Register(ctx context.Context, p Principal, password string) (Principal, error) {
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
		if err != nil {
			return Principal{}, err
		}
		p.PasswordHash = hash
	}

	p.ID = uuid.New().String()
	p.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, p); err != nil {
		return Principal{}, err
	}
	return p, nil
}

// Authenticate verifies an email/password pair against the store named by
// role. Both a missing principal and a hash mismatch return
// ErrBadCredentials.
func (s *Service) Authenticate(ctx context.Context, role Role, email, password string) (Principal, error) {
	p, err := s.repo.FindByEmail(ctx, role, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrBadCredentials
		}
		return Principal{}, err
	}
	if len(p.PasswordHash) == 0 {
		return Principal{}, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(password)) != nil {
		return Principal{}, ErrBadCredentials
	}
	return p, nil
}

// ResolveByPhone looks a phone number up across both stores and returns the
// tagged principal. The rider store is checked first with the captain store
// as fallback, preserving the historical login behavior.
func (s *Service) ResolveByPhone(ctx context.Context, phone string) (Principal, error) {
	p, err := s.repo.FindByPhone(ctx, RoleRider, phone)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Principal{}, err
	}
	return s.repo.FindByPhone(ctx, RoleCaptain, phone)
}

// Find fetches a principal by role and id.
func (s *Service) Find(ctx context.Context, role Role, id string) (Principal, error) {
	return s.repo.FindByID(ctx, role, id)
}

// MarkVerified flips the verification flag once phone ownership is proven.
func (s *Service) MarkVerified(ctx context.Context, role Role, id string) error {
	return s.repo.SetVerified(ctx, role, id, true)
}

// UpdateAvatar stores a new avatar reference for the principal.
func (s *Service) UpdateAvatar(ctx context.Context, role Role, id, url string) error {
	return s.repo.UpdateAvatar(ctx, role, id, url)
}
