package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/adapter"
	"interview-prep-backend/internal/domain/ports/repository"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserUseCase interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, error)
	// Login verifies credentials and returns the user for token minting.
	Login(ctx context.Context, email, password string) (*model.User, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
	// RequestOTP issues a verification code and mails it to the user.
	RequestOTP(ctx context.Context, userID string) error
	// VerifyOTP checks the code and marks the user's email verified.
	VerifyOTP(ctx context.Context, userID, code string) error
}

var _ UserUseCase = (*userUseCase)(nil)

type userUseCase struct {
	users     repository.UserRepository
	otp       repository.OTPStore
	limiter   repository.RateLimiter
	mailer    adapter.Mailer
	otpPerQtr int
	log       *zerolog.Logger
}

func NewUserUseCase(
	users repository.UserRepository,
	otp repository.OTPStore,
	limiter repository.RateLimiter,
	mailer adapter.Mailer,
	otpPerQuarterHour int,
	logger *zerolog.Logger,
) UserUseCase {
	return &userUseCase{
		users:     users,
		otp:       otp,
		limiter:   limiter,
		mailer:    mailer,
		otpPerQtr: otpPerQuarterHour,
		log:       logger,
	}
}

func (uc *userUseCase) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	var fields []string
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, "name")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fields = append(fields, "email")
	}
	if len(req.Password) < 8 {
		fields = append(fields, "password")
	}
	if err := domain.NewValidationError(fields...); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		CreatedAt:    now,
		LastActiveAt: now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *userUseCase) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := uc.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}

	bestEffort(uc.log, "touch last active", func() error {
		return uc.users.TouchLastActive(ctx, user.ID)
	})
	return user, nil
}

func (uc *userUseCase) Profile(ctx context.Context, userID string) (*model.User, error) {
	return uc.users.FindByID(ctx, userID)
}

func (uc *userUseCase) RequestOTP(ctx context.Context, userID string) error {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := uc.limiter.Allow(ctx, "otp:"+userID, uc.otpPerQtr, 15*time.Minute)
	if err != nil {
		return fmt.Errorf("rate limit check: %w", err)
	}
	if !ok {
		return domain.ErrRateLimited
	}

	code, err := uc.otp.Issue(ctx, user.Email)
	if err != nil {
		return err
	}
	if err := uc.mailer.SendOTP(user.Email, code); err != nil {
		return fmt.Errorf("deliver otp: %w", err)
	}
	return nil
}

func (uc *userUseCase) VerifyOTP(ctx context.Context, userID, code string) error {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := uc.otp.Verify(ctx, user.Email, strings.TrimSpace(code)); err != nil {
		return err
	}
	return uc.users.SetEmailVerified(ctx, userID)
}
