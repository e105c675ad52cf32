package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
)

type CreateSessionRequest struct {
	Role        string   `json:"role"`
	Experience  string   `json:"experience"`
	Topics      []string `json:"topicsToFocus"`
	Description string   `json:"description"`
}

type SessionUseCase interface {
	Create(ctx context.Context, userID string, req CreateSessionRequest) (*model.Session, error)
	Get(ctx context.Context, userID, sessionID string) (*model.Session, error)
	ListMine(ctx context.Context, userID string) ([]*model.Session, error)
	UpdateStatus(ctx context.Context, userID, sessionID string, status model.SessionStatus) error
	// Delete removes the session and all its questions.
	Delete(ctx context.Context, userID, sessionID string) error
}

var _ SessionUseCase = (*sessionUseCase)(nil)

type sessionUseCase struct {
	sessions  repository.SessionRepository
	analytics repository.AnalyticsTracker
	log       *zerolog.Logger
}

func NewSessionUseCase(sessions repository.SessionRepository, analytics repository.AnalyticsTracker, logger *zerolog.Logger) SessionUseCase {
	return &sessionUseCase{sessions: sessions, analytics: analytics, log: logger}
}

func (uc *sessionUseCase) Create(ctx context.Context, userID string, req CreateSessionRequest) (*model.Session, error) {
	var fields []string
	if strings.TrimSpace(req.Role) == "" {
		fields = append(fields, "role")
	}
	if strings.TrimSpace(req.Experience) == "" {
		fields = append(fields, "experience")
	}
	if len(req.Topics) == 0 || hasBlankTopic(req.Topics) {
		fields = append(fields, "topicsToFocus")
	}
	if err := domain.NewValidationError(fields...); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &model.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		Role:        strings.TrimSpace(req.Role),
		Experience:  strings.TrimSpace(req.Experience),
		Topics:      req.Topics,
		Description: strings.TrimSpace(req.Description),
		Status:      model.SessionStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	bestEffort(uc.log, "track session create", func() error {
		return uc.analytics.TrackActivity(ctx, userID, "session_created", map[string]any{
			"session_id": session.ID,
			"role":       session.Role,
		})
	})
	return session, nil
}

func (uc *sessionUseCase) Get(ctx context.Context, userID, sessionID string) (*model.Session, error) {
	session, err := uc.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return session, nil
}

func (uc *sessionUseCase) ListMine(ctx context.Context, userID string) ([]*model.Session, error) {
	return uc.sessions.FindByUser(ctx, userID)
}

func (uc *sessionUseCase) UpdateStatus(ctx context.Context, userID, sessionID string, status model.SessionStatus) error {
	if !model.ValidSessionStatus(status) {
		return domain.NewValidationError("status")
	}
	if _, err := uc.Get(ctx, userID, sessionID); err != nil {
		return err
	}
	return uc.sessions.UpdateStatus(ctx, sessionID, status)
}

func (uc *sessionUseCase) Delete(ctx context.Context, userID, sessionID string) error {
	if _, err := uc.Get(ctx, userID, sessionID); err != nil {
		return err
	}
	return uc.sessions.Delete(ctx, sessionID)
}
