package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"interview-prep-backend/internal/config"
)

// ZMember is one sorted-set entry, kept here so callers outside this package
// never touch go-redis types directly.
type ZMember struct {
	Member string
	Score  float64
}

// Client is the subset of redis commands the infra components use. Misses are
// signaled with redis.Nil, matching the driver.
type Client interface {
	Ping(ctx context.Context) error
	Close() error

	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, pattern string) ([]string, error)
	Exists(ctx context.Context, keys ...string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)

	LPush(ctx context.Context, key string, values ...interface{}) error
	LTrim(ctx context.Context, key string, start, stop int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LRem(ctx context.Context, key string, count int64, value interface{}) (int64, error)
	RPopLPush(ctx context.Context, source, destination string) (string, error)

	HSet(ctx context.Context, key string, values ...interface{}) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error)

	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRangeByScore(ctx context.Context, key, min, max string) ([]string, error)
	ZRem(ctx context.Context, key string, members ...interface{}) (int64, error)
	ZIncrBy(ctx context.Context, key string, increment float64, member string) (float64, error)
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZMember, error)

	SAdd(ctx context.Context, key string, members ...interface{}) error
	SMIsMember(ctx context.Context, key string, members []string) ([]bool, error)

	Publish(ctx context.Context, channel string, message interface{}) error
}

var _ Client = (*redClient)(nil)

type redClient struct {
	cli *redis.Client
}

func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redClient, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &redClient{cli: c}, nil
}

func (c *redClient) Ping(ctx context.Context) error { return c.cli.Ping(ctx).Err() }
func (c *redClient) Close() error                   { return c.cli.Close() }

func (c *redClient) Get(ctx context.Context, key string) (string, error) {
	return c.cli.Get(ctx, key).Result()
}

func (c *redClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.cli.Set(ctx, key, value, expiration).Err()
}

func (c *redClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return c.cli.SetNX(ctx, key, value, expiration).Result()
}

func (c *redClient) Del(ctx context.Context, keys ...string) error {
	return c.cli.Del(ctx, keys...).Err()
}

func (c *redClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	return c.cli.Keys(ctx, pattern).Result()
}

func (c *redClient) Exists(ctx context.Context, keys ...string) (int64, error) {
	return c.cli.Exists(ctx, keys...).Result()
}

func (c *redClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.cli.Expire(ctx, key, expiration).Err()
}

func (c *redClient) Incr(ctx context.Context, key string) (int64, error) {
	return c.cli.Incr(ctx, key).Result()
}

func (c *redClient) LPush(ctx context.Context, key string, values ...interface{}) error {
	return c.cli.LPush(ctx, key, values...).Err()
}

func (c *redClient) LTrim(ctx context.Context, key string, start, stop int64) error {
	return c.cli.LTrim(ctx, key, start, stop).Err()
}

func (c *redClient) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return c.cli.LRange(ctx, key, start, stop).Result()
}

func (c *redClient) LRem(ctx context.Context, key string, count int64, value interface{}) (int64, error) {
	return c.cli.LRem(ctx, key, count, value).Result()
}

func (c *redClient) RPopLPush(ctx context.Context, source, destination string) (string, error) {
	return c.cli.RPopLPush(ctx, source, destination).Result()
}

func (c *redClient) HSet(ctx context.Context, key string, values ...interface{}) error {
	return c.cli.HSet(ctx, key, values...).Err()
}

func (c *redClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return c.cli.HGetAll(ctx, key).Result()
}

func (c *redClient) HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error) {
	return c.cli.HIncrBy(ctx, key, field, incr).Result()
}

func (c *redClient) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return c.cli.ZAdd(ctx, key, &redis.Z{Score: score, Member: member}).Err()
}

func (c *redClient) ZRangeByScore(ctx context.Context, key, min, max string) ([]string, error) {
	return c.cli.ZRangeByScore(ctx, key, &redis.ZRangeBy{Min: min, Max: max}).Result()
}

func (c *redClient) ZRem(ctx context.Context, key string, members ...interface{}) (int64, error) {
	return c.cli.ZRem(ctx, key, members...).Result()
}

func (c *redClient) ZIncrBy(ctx context.Context, key string, increment float64, member string) (float64, error) {
	return c.cli.ZIncrBy(ctx, key, increment, member).Result()
}

func (c *redClient) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZMember, error) {
	zs, err := c.cli.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, err
	}
	out := make([]ZMember, 0, len(zs))
	for _, z := range zs {
		m, _ := z.Member.(string)
		out = append(out, ZMember{Member: m, Score: z.Score})
	}
	return out, nil
}

func (c *redClient) SAdd(ctx context.Context, key string, members ...interface{}) error {
	return c.cli.SAdd(ctx, key, members...).Err()
}

func (c *redClient) SMIsMember(ctx context.Context, key string, members []string) ([]bool, error) {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return c.cli.SMIsMember(ctx, key, args...).Result()
}

func (c *redClient) Publish(ctx context.Context, channel string, message interface{}) error {
	return c.cli.Publish(ctx, channel, message).Err()
}
