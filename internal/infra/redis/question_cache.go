package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
	"interview-prep-backend/internal/infra/metrics"
)

var _ repository.QuestionCache = (*QuestionCache)(nil)

const questionCachePrefix = "questions:"

// QuestionCache stores generated question/answer sets keyed by the request
// fingerprint, so identical requests skip the AI call. Strictly fail-open:
// a broken cache is a cache miss, never an error.
type QuestionCache struct {
	client Client
	ttl    time.Duration
	log    *zerolog.Logger
}

func NewQuestionCache(client Client, ttl time.Duration, logger *zerolog.Logger) *QuestionCache {
	return &QuestionCache{client: client, ttl: ttl, log: logger}
}

func (c *QuestionCache) Get(ctx context.Context, key string) ([]model.QuestionAnswer, bool) {
	data, err := c.client.Get(ctx, questionCachePrefix+key)
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("question cache get failed")
		}
		metrics.IncCacheRequest("questions", "miss")
		return nil, false
	}

	var pairs []model.QuestionAnswer
	if err := json.Unmarshal([]byte(data), &pairs); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("question cache entry corrupt")
		metrics.IncCacheRequest("questions", "miss")
		return nil, false
	}
	if len(pairs) == 0 {
		metrics.IncCacheRequest("questions", "miss")
		return nil, false
	}
	metrics.IncCacheRequest("questions", "hit")
	return pairs, true
}

func (c *QuestionCache) Set(ctx context.Context, key string, pairs []model.QuestionAnswer) {
	data, err := json.Marshal(pairs)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("question cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, questionCachePrefix+key, data, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("question cache set failed")
	}
}

func (c *QuestionCache) Invalidate(ctx context.Context, prefix string) {
	keys, err := c.client.Keys(ctx, questionCachePrefix+prefix+"*")
	if err != nil {
		c.log.Warn().Err(err).Str("prefix", prefix).Msg("question cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...); err != nil {
		c.log.Warn().Err(err).Str("prefix", prefix).Msg("question cache invalidate failed")
	}
}
