package otp

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:v1:"

// RedisStore keeps HMAC-SHA256 hashes of issued codes in redis with a TTL.
// A plain SET gives upsert semantics: reissuing for the same phone overwrites
// the prior hash, so only the newest code is ever valid.
type RedisStore struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
}

// NewRedisStore builds the local OTP backend. secret keys the code hashes;
// ttl bounds each code's lifetime.
func NewRedisStore(client *redis.Client, secret string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, secret: []byte(secret), ttl: ttl}
}

// Issue generates a fresh code and stores its hash, replacing any live code
// for the phone number.
func (s *RedisStore) Issue(ctx context.Context, phone string) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, keyPrefix+phone, s.hash(code), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Verify compares the candidate's hash against the stored one. Absent or
// expired entries fail closed.
func (s *RedisStore) Verify(ctx context.Context, phone, code string) (bool, error) {
	stored, err := s.client.Get(ctx, keyPrefix+phone).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("load otp: %w", err)
	}
	return hmac.Equal([]byte(stored), []byte(s.hash(code))), nil
}

// Consume deletes the stored code. Deleting an absent key is a no-op, which
// makes Consume idempotent.
func (s *RedisStore) Consume(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, keyPrefix+phone).Err(); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	return nil
}

func (s *RedisStore) hash(code string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}
