package repository

import (
	"context"

	"interview-prep-backend/internal/domain/model"
)

type AnalyticsTracker interface {
	TrackActivity(ctx context.Context, userID, activityType string, meta map[string]any) error
	IncrementTopicPopularity(ctx context.Context, topics []string) error
	PopularTopics(ctx context.Context, limit int) ([]model.TopicCount, error)
	RecentActivity(ctx context.Context, userID string, limit int) ([]model.ActivityEvent, error)
}
