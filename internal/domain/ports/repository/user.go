package repository

import (
	"context"

	"interview-prep-backend/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	SetEmailVerified(ctx context.Context, id string) error
	TouchLastActive(ctx context.Context, id string) error
}
