package repository

import (
	"context"

	"interview-prep-backend/internal/domain/model"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
	FindByUser(ctx context.Context, userID string) ([]*model.Session, error)
	UpdateStatus(ctx context.Context, id string, status model.SessionStatus) error
	// Delete removes the session and cascades to its questions.
	Delete(ctx context.Context, id string) error
}
