package repository

import (
	"context"

	"interview-prep-backend/internal/domain/model"
)

type QuestionRepository interface {
	InsertMany(ctx context.Context, questions []*model.Question) error
	FindByID(ctx context.Context, id string) (*model.Question, error)
	// FindBySession returns the session's questions, pinned first, then newest.
	FindBySession(ctx context.Context, sessionID string) ([]*model.Question, error)
	// Search returns the session's questions whose text, answer or category
	// contains the query, case-insensitively, ordered like FindBySession.
	Search(ctx context.Context, sessionID, query string) ([]*model.Question, error)
	// CountBySession backs the 50-question quota check. The count query is
	// authoritative: it sees inserts from every code path.
	CountBySession(ctx context.Context, sessionID string) (int, error)
	SetPinned(ctx context.Context, id string, pinned bool) error
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id string) error
}
