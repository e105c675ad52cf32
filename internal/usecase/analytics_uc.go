package usecase

import (
	"context"

	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
)

type AnalyticsUseCase interface {
	PopularTopics(ctx context.Context, limit int) ([]model.TopicCount, error)
	RecentActivity(ctx context.Context, userID string, limit int) ([]model.ActivityEvent, error)
}

var _ AnalyticsUseCase = (*analyticsUseCase)(nil)

type analyticsUseCase struct {
	tracker repository.AnalyticsTracker
}

func NewAnalyticsUseCase(tracker repository.AnalyticsTracker) AnalyticsUseCase {
	return &analyticsUseCase{tracker: tracker}
}

func (uc *analyticsUseCase) PopularTopics(ctx context.Context, limit int) ([]model.TopicCount, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return uc.tracker.PopularTopics(ctx, limit)
}

func (uc *analyticsUseCase) RecentActivity(ctx context.Context, userID string, limit int) ([]model.ActivityEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	return uc.tracker.RecentActivity(ctx, userID, limit)
}
