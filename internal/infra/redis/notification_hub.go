package redis

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
	"interview-prep-backend/internal/infra/metrics"
)

var _ repository.NotificationHub = (*NotificationHub)(nil)

const (
	notificationHistoryCap = 100
	notificationHistoryTTL = 7 * 24 * time.Hour
	notificationReadTTL    = 30 * 24 * time.Hour
)

// NotificationHub broadcasts job-outcome events on a per-user channel and
// keeps a capped history so offline clients can catch up by polling. The
// history list and the acknowledged-id set are independent pieces of state
// with independent expiries.
type NotificationHub struct {
	client Client
	log    *zerolog.Logger
}

func NewNotificationHub(client Client, logger *zerolog.Logger) *NotificationHub {
	return &NotificationHub{client: client, log: logger}
}

func channelKey(userID string) string { return "notifications:user:" + userID }
func historyKey(userID string) string { return "notifications:user:" + userID + ":list" }
func readKey(userID string) string    { return "notifications:user:" + userID + ":read" }

// Publish stamps the envelope, broadcasts it, and appends it to the user's
// history. Both always happen: a client offline at broadcast time finds the
// event in the list later. Failures are logged and swallowed — notification
// delivery is not part of any job's completion contract.
func (h *NotificationHub) Publish(ctx context.Context, userID string, event *model.NotificationEvent) {
	event.ID = "notif_" + ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	event.Timestamp = time.Now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("notification marshal failed")
		metrics.IncNotification(string(event.Type), "error")
		return
	}

	if err := h.client.Publish(ctx, channelKey(userID), data); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("notification broadcast failed")
	}

	if err := h.client.LPush(ctx, historyKey(userID), data); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("notification history push failed")
		metrics.IncNotification(string(event.Type), "error")
		return
	}
	if err := h.client.LTrim(ctx, historyKey(userID), 0, notificationHistoryCap-1); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("notification history trim failed")
	}
	if err := h.client.Expire(ctx, historyKey(userID), notificationHistoryTTL); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("notification history expire failed")
	}
	metrics.IncNotification(string(event.Type), "ok")
}

// List returns the most recent events, newest first, with read flags merged
// in from the acknowledged-id set.
func (h *NotificationHub) List(ctx context.Context, userID string, limit int) ([]*model.NotificationEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	raw, err := h.client.LRange(ctx, historyKey(userID), 0, int64(limit)-1)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	events := make([]*model.NotificationEvent, 0, len(raw))
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		var ev model.NotificationEvent
		if err := json.Unmarshal([]byte(r), &ev); err != nil {
			h.log.Warn().Err(err).Str("user_id", userID).Msg("skipping corrupt notification entry")
			continue
		}
		events = append(events, &ev)
		ids = append(ids, ev.ID)
	}
	if len(ids) == 0 {
		return events, nil
	}

	read, err := h.client.SMIsMember(ctx, readKey(userID), ids)
	if err != nil {
		// Read-state is auxiliary; still return the events.
		h.log.Warn().Err(err).Str("user_id", userID).Msg("read-state lookup failed")
		return events, nil
	}
	for i := range read {
		events[i].Read = read[i]
	}
	return events, nil
}

func (h *NotificationHub) MarkRead(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	if err := h.client.SAdd(ctx, readKey(userID), members...); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return h.client.Expire(ctx, readKey(userID), notificationReadTTL)
}

func (h *NotificationHub) Clear(ctx context.Context, userID string) error {
	// Only the history; acknowledged ids keep their own lifecycle.
	return h.client.Del(ctx, historyKey(userID))
}
