// Package otp implements a Redis-backed one-time-password store. Codes are
// keyed by email, expire after the configured TTL, and are consumed on
// successful verification so a code can never be replayed.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

var (
	// ErrCodeExpired is returned when no code is stored for the email,
	// either because none was issued or because the TTL elapsed.
	ErrCodeExpired = errors.New("otp code expired or not issued")

	// ErrCodeMismatch is returned when the submitted code does not match
	// the stored one. The stored code stays valid until its TTL elapses.
	ErrCodeMismatch = errors.New("otp code does not match")
)

// Store issues and verifies one-time passwords
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewStore creates an OTP store with the given code lifetime
func NewStore(logger *slog.Logger, client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Issue generates a fresh six-digit code for the email and stores it with
// the configured TTL, replacing any previously issued code.
func (s *Store) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+email, code, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to store otp code", "email", email, "error", err)
		return "", fmt.Errorf("failed to store otp code: %w", err)
	}

	return code, nil
}

// Verify checks the submitted code against the stored one and consumes it on
// success. Returns ErrCodeExpired when nothing is stored and ErrCodeMismatch
// when the codes differ.
func (s *Store) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, keyPrefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeExpired
		}
		s.logger.Error("Failed to read otp code", "email", email, "error", err)
		return fmt.Errorf("failed to read otp code: %w", err)
	}

	if stored != code {
		return ErrCodeMismatch
	}

	if err := s.client.Del(ctx, keyPrefix+email).Err(); err != nil {
		s.logger.Error("Failed to consume otp code", "email", email, "error", err)
		return fmt.Errorf("failed to consume otp code: %w", err)
	}

	return nil
}

// generateCode returns a uniformly random six-digit code with leading zeros
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
