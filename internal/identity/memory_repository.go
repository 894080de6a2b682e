package identity

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu         sync.RWMutex
	principals map[Role]map[string]Principal // keyed by id
}

// NewMemoryRepository builds an in-memory principal store used in development
// mode and as a test double. It mirrors the store-level uniqueness semantics
// of the Postgres repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{principals: map[Role]map[string]Principal{
		RoleRider:   {},
		RoleCaptain: {},
	}}
}

func (r *memoryRepository) Create(_ context.Context, p Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	store := r.principals[p.Role]
	for _, existing := range store {
		if existing.Email == p.Email || existing.Phone == p.Phone {
			return ErrExists
		}
	}
	store[p.ID] = p
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, role Role, id string) (Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.principals[role][id]
	if !ok {
		return Principal{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, role Role, email string) (Principal, error) {
	return r.findWhere(role, func(p Principal) bool { return p.Email == email })
}

func (r *memoryRepository) FindByPhone(_ context.Context, role Role, phone string) (Principal, error) {
	return r.findWhere(role, func(p Principal) bool { return p.Phone == phone })
}

func (r *memoryRepository) findWhere(role Role, match func(Principal) bool) (Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.principals[role] {
		if match(p) {
			return p, nil
		}
	}
	return Principal{}, ErrNotFound
}

func (r *memoryRepository) UpdateAvatar(_ context.Context, role Role, id, url string) error {
	return r.update(role, id, func(p *Principal) { p.AvatarURL = url })
}

func (r *memoryRepository) SetVerified(_ context.Context, role Role, id string, verified bool) error {
	return r.update(role, id, func(p *Principal) { p.IsVerified = verified })
}

func (r *memoryRepository) update(role Role, id string, apply func(*Principal)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.principals[role][id]
	if !ok {
		return ErrNotFound
	}
	apply(&p)
	r.principals[role][id] = p
	return nil
}

func (r *memoryRepository) FirstActiveCaptain(_ context.Context) (Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var active []Principal
	for _, p := range r.principals[RoleCaptain] {
		if p.Active {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return Principal{}, ErrNotFound
	}
	sort.Slice(active, func(i, j int) bool { return active[i].CreatedAt.Before(active[j].CreatedAt) })
	return active[0], nil
}
