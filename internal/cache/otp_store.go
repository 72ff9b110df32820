package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// OtpStore keeps password-reset OTP codes in redis with a TTL, so codes
// survive process restarts and work across multiple instances.
type OtpStore interface {
	Set(ctx context.Context, email, code string, ttl time.Duration) error

	// Consume returns whether code matches the stored entry for email and
	// removes it (single-use). A missing or expired entry is not a match.
	Consume(ctx context.Context, email, code string) (bool, error)

	// Peek reads without consuming, used to validate a code before the
	// final reset step.
	Peek(ctx context.Context, email, code string) (bool, error)
}

type redisOtpStore struct {
	client *redis.Client
}

func NewOtpStore(client *redis.Client) OtpStore {
	return &redisOtpStore{client: client}
}

func otpKey(email string) string {
	return "otp:" + email
}

func (s *redisOtpStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKey(email), code, ttl).Err()
}

func (s *redisOtpStore) Consume(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.client.GetDel(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == code, nil
}

func (s *redisOtpStore) Peek(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.client.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == code, nil
}
