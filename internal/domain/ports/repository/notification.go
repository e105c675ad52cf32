package repository

import (
	"context"

	"interview-prep-backend/internal/domain/model"
)

// NotificationHub fans job-outcome events out to the originating user.
// Publish is best-effort by contract: it broadcasts on the user's channel and
// appends to a capped history, and its failure must never fail the job that
// triggered it.
type NotificationHub interface {
	Publish(ctx context.Context, userID string, event *model.NotificationEvent)
	List(ctx context.Context, userID string, limit int) ([]*model.NotificationEvent, error)
	// MarkRead acknowledges event ids. Idempotent; read-state is tracked
	// separately from the events themselves.
	MarkRead(ctx context.Context, userID string, ids []string) error
	// Clear drops the event history but keeps read-state.
	Clear(ctx context.Context, userID string) error
}
