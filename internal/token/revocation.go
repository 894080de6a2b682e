package token

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "revoked:v1:"

// RevocationStore records revoked tokens until their natural expiry. Entries
// self-expire, which bounds the set to tokens that are revoked but would
// otherwise still be valid.
type RevocationStore interface {
	Revoke(ctx context.Context, raw string, ttl time.Duration) error
	IsRevoked(ctx context.Context, raw string) (bool, error)
}

// RedisRevocations implements RevocationStore on redis, keyed by the raw
// token string with the remaining validity as TTL.
type RedisRevocations struct {
	client *redis.Client
}

// NewRedisRevocations builds a redis-backed revocation set.
func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client}
}

// Revoke marks the token revoked for the given TTL.
func (r *RedisRevocations) Revoke(ctx context.Context, raw string, ttl time.Duration) error {
	return r.client.Set(ctx, revokedPrefix+raw, "1", ttl).Err()
}

// IsRevoked reports whether the token is currently in the set.
func (r *RedisRevocations) IsRevoked(ctx context.Context, raw string) (bool, error) {
	if err := r.client.Get(ctx, revokedPrefix+raw).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
