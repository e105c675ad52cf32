package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
)

var _ repository.AnalyticsTracker = (*AnalyticsTracker)(nil)

const (
	activityLogCap = 200
	activityLogTTL = 30 * 24 * time.Hour
	topicsKey      = "analytics:topics"
)

// AnalyticsTracker keeps a capped per-user activity log and a global topic
// popularity counter. Callers treat every write as fire-and-forget.
type AnalyticsTracker struct {
	client Client
}

func NewAnalyticsTracker(client Client) *AnalyticsTracker {
	return &AnalyticsTracker{client: client}
}

func activityKey(userID string) string { return "analytics:user:" + userID + ":activity" }

func (t *AnalyticsTracker) TrackActivity(ctx context.Context, userID, activityType string, meta map[string]any) error {
	ev := model.ActivityEvent{Type: activityType, Meta: meta, Timestamp: time.Now().UTC()}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("track activity: %w", err)
	}
	if err := t.client.LPush(ctx, activityKey(userID), data); err != nil {
		return fmt.Errorf("track activity: %w", err)
	}
	if err := t.client.LTrim(ctx, activityKey(userID), 0, activityLogCap-1); err != nil {
		return fmt.Errorf("track activity: %w", err)
	}
	return t.client.Expire(ctx, activityKey(userID), activityLogTTL)
}

func (t *AnalyticsTracker) IncrementTopicPopularity(ctx context.Context, topics []string) error {
	for _, topic := range topics {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic == "" {
			continue
		}
		if _, err := t.client.ZIncrBy(ctx, topicsKey, 1, topic); err != nil {
			return fmt.Errorf("topic popularity: %w", err)
		}
	}
	return nil
}

func (t *AnalyticsTracker) PopularTopics(ctx context.Context, limit int) ([]model.TopicCount, error) {
	if limit <= 0 {
		limit = 10
	}
	members, err := t.client.ZRevRangeWithScores(ctx, topicsKey, 0, int64(limit)-1)
	if err != nil {
		return nil, fmt.Errorf("popular topics: %w", err)
	}
	out := make([]model.TopicCount, 0, len(members))
	for _, m := range members {
		out = append(out, model.TopicCount{Topic: m.Member, Count: int64(m.Score)})
	}
	return out, nil
}

func (t *AnalyticsTracker) RecentActivity(ctx context.Context, userID string, limit int) ([]model.ActivityEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	raw, err := t.client.LRange(ctx, activityKey(userID), 0, int64(limit)-1)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	out := make([]model.ActivityEvent, 0, len(raw))
	for _, r := range raw {
		var ev model.ActivityEvent
		if err := json.Unmarshal([]byte(r), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}
