package redis

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// OTPStore implements ports.OTPStore using Redis with TTL. A code is
// single-use: Consume deletes it on match.
type OTPStore struct {
	client *goredis.Client
	prefix string
}

// NewOTPStore creates a new Redis-backed OTP store.
func NewOTPStore(client *goredis.Client) *OTPStore {
	return &OTPStore{
		client: client,
		prefix: "otp:",
	}
}

// Put stores the code for the phone, replacing any pending one.
func (s *OTPStore) Put(ctx context.Context, phone, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+phone, code, ttl).Err(); err != nil {
		return fmt.Errorf("redis otp set: %w", err)
	}
	return nil
}

// Consume checks the stored code and deletes it on match. Returns false for
// a wrong, expired, or already-consumed code.
func (s *OTPStore) Consume(ctx context.Context, phone, code string) (bool, error) {
	key := s.prefix + phone
	stored, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == goredis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("redis otp get: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("redis otp del: %w", err)
	}
	return true, nil
}
