package cache

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"calmora/internal/shared/constants"
)

var (
	// ErrOTPInvalid covers not-found, expired and mismatched codes alike so
	// callers leak nothing about which one happened.
	ErrOTPInvalid     = errors.New("verification code is invalid or expired")
	ErrOTPRateLimited = errors.New("too many verification attempts, request a new code")
)

const otpAttemptsSuffix = ":attempts"

// OTPStore keeps one-time verification codes in redis with a TTL. Attempts
// are counted per identity; exceeding the cap invalidates the code.
type OTPStore struct {
	client      *redis.Client
	codeLength  int
	ttl         time.Duration
	maxAttempts int
}

func NewOTPStore(client *redis.Client, codeLength, expiresMinutes, maxAttempts int) *OTPStore {
	if codeLength <= 0 {
		codeLength = 6
	}
	return &OTPStore{
		client:      client,
		codeLength:  codeLength,
		ttl:         time.Duration(expiresMinutes) * time.Minute,
		maxAttempts: maxAttempts,
	}
}

// Generate creates a numeric code for the identity (email or phone) and
// stores it, replacing any previous code.
func (s *OTPStore) Generate(ctx context.Context, identity string) (string, error) {
	code, err := s.randomCode()
	if err != nil {
		return "", err
	}

	key := constants.RedisPrefixOTP + identity
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, code, s.ttl)
	pipe.Del(ctx, key+otpAttemptsSuffix)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}
	return code, nil
}

// Verify consumes the code on success. Each failed attempt is counted; once
// the cap is hit the code is deleted.
func (s *OTPStore) Verify(ctx context.Context, identity, code string) error {
	if code == "" {
		return ErrOTPInvalid
	}

	key := constants.RedisPrefixOTP + identity
	attemptsKey := key + otpAttemptsSuffix

	attempts, err := s.client.Get(ctx, attemptsKey).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to check verification attempts: %w", err)
	}
	if s.maxAttempts > 0 && attempts >= s.maxAttempts {
		s.client.Del(ctx, key, attemptsKey)
		return ErrOTPRateLimited
	}

	stored, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrOTPInvalid
	}
	if err != nil {
		return fmt.Errorf("failed to read verification code: %w", err)
	}

	if stored != code {
		pipe := s.client.TxPipeline()
		pipe.Incr(ctx, attemptsKey)
		pipe.Expire(ctx, attemptsKey, s.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to record verification attempt: %w", err)
		}
		return ErrOTPInvalid
	}

	if err := s.client.Del(ctx, key, attemptsKey).Err(); err != nil {
		return fmt.Errorf("failed to consume verification code: %w", err)
	}
	return nil
}

func (s *OTPStore) randomCode() (string, error) {
	digits := make([]byte, s.codeLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate verification code: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
