package identity

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no principal matches the lookup.
	ErrNotFound = errors.New("principal not found")
	// ErrExists is returned when an identifier is already taken. The store
	// enforces this with a uniqueness constraint, so two concurrent
	// registrations for the same identifier cannot both succeed even though
	// the service's duplicate check is not atomic with the insert.
	ErrExists = errors.New("principal already exists")
)

// Repository persists principals. Email and phone are unique per role.
type Repository interface {
	Create(ctx context.Context, p Principal) error
	FindByID(ctx context.Context, role Role, id string) (Principal, error)
	FindByEmail(ctx context.Context, role Role, email string) (Principal, error)
	FindByPhone(ctx context.Context, role Role, phone string) (Principal, error)
	UpdateAvatar(ctx context.Context, role Role, id, url string) error
	SetVerified(ctx context.Context, role Role, id string, verified bool) error
	FirstActiveCaptain(ctx context.Context) (Principal, error)
}
