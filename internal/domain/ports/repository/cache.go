package repository

import (
	"context"

	"interview-prep-backend/internal/domain/model"
)

// QuestionCache maps a generation-parameter fingerprint to previously
// generated pairs. Every operation is fail-open: a broken cache degrades to
// "miss", it never fails the request.
type QuestionCache interface {
	Get(ctx context.Context, key string) ([]model.QuestionAnswer, bool)
	Set(ctx context.Context, key string, pairs []model.QuestionAnswer)
	// Invalidate best-effort deletes every key under the prefix.
	Invalidate(ctx context.Context, prefix string)
}
