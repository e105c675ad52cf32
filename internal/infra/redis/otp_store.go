package redis

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/ports/repository"
)

var _ repository.OTPStore = (*OTPStore)(nil)

const (
	otpTTL         = 10 * time.Minute
	otpCooldown    = time.Minute
	otpMaxAttempts = 5
)

// OTPStore keeps email verification codes in redis with a short TTL, a
// resend cooldown and a bounded number of verification attempts.
type OTPStore struct {
	client Client
}

func NewOTPStore(client Client) *OTPStore {
	return &OTPStore{client: client}
}

func codeKey(email string) string     { return "otp:" + email }
func cooldownKey(email string) string { return "otp:" + email + ":cooldown" }
func attemptsKey(email string) string { return "otp:" + email + ":attempts" }

func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	ok, err := s.client.SetNX(ctx, cooldownKey(email), "1", otpCooldown)
	if err != nil {
		return "", fmt.Errorf("otp cooldown: %w", err)
	}
	if !ok {
		return "", domain.ErrRateLimited
	}

	code, err := sixDigitCode()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, codeKey(email), code, otpTTL); err != nil {
		return "", fmt.Errorf("otp store: %w", err)
	}
	_ = s.client.Del(ctx, attemptsKey(email))
	return code, nil
}

func (s *OTPStore) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, codeKey(email))
	if err != nil {
		if err == redis.Nil {
			return domain.ErrOTPExpired
		}
		return fmt.Errorf("otp lookup: %w", err)
	}

	attempts, err := s.client.Incr(ctx, attemptsKey(email))
	if err != nil {
		return fmt.Errorf("otp attempts: %w", err)
	}
	if attempts == 1 {
		_ = s.client.Expire(ctx, attemptsKey(email), otpTTL)
	}
	if attempts > otpMaxAttempts {
		_ = s.client.Del(ctx, codeKey(email))
		return domain.ErrOTPExpired
	}

	if stored != code {
		return domain.ErrOTPMismatch
	}

	_ = s.client.Del(ctx, codeKey(email), attemptsKey(email))
	return nil
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("otp generate: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
