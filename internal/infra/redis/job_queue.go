package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"interview-prep-backend/internal/config"
	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
	"interview-prep-backend/internal/infra/metrics"
)

var (
	_ repository.JobQueue    = (*JobQueue)(nil)
	_ repository.JobConsumer = (*JobQueue)(nil)
)

// How long a terminal job hash stays inspectable before redis reclaims it.
const terminalJobTTL = 24 * time.Hour

// Margin added to the job timeout for the heartbeat key. A worker that dies
// mid-job stops refreshing the beat; once it lapses, Maintain reclaims the job.
const heartbeatMargin = 30 * time.Second

// JobQueue is a durable redis-backed work queue with retry, backoff and
// observable state. Each job type gets its own instance with its own policy.
// Job state lives entirely in redis, so the process that enqueued a job and
// the process that runs it see the same state machine.
//
// Key layout under queue:{name}: — "id" counter, "wait" list, "active" list,
// "delayed" zset scored by ready-at millis, "job:{id}" hash per job,
// "beat:{id}" heartbeat, "completed"/"failed" retention lists.
type JobQueue struct {
	client Client
	name   string
	cfg    config.QueueConfig
	log    *zerolog.Logger
	now    func() time.Time
}

func NewJobQueue(client Client, name string, cfg config.QueueConfig, logger *zerolog.Logger) *JobQueue {
	return &JobQueue{
		client: client,
		name:   name,
		cfg:    cfg,
		log:    logger,
		now:    time.Now,
	}
}

func (q *JobQueue) Name() string           { return q.name }
func (q *JobQueue) Timeout() time.Duration { return q.cfg.Timeout }
func (q *JobQueue) Concurrency() int       { return q.cfg.Concurrency }

func (q *JobQueue) key(parts ...string) string {
	return "queue:" + q.name + ":" + strings.Join(parts, ":")
}

// Enqueue assigns a sequential id, persists the job hash and pushes the id
// onto the waiting list. It returns as soon as redis acknowledges — the 202
// contract. Unlike the cache this is NOT fail-open: a dropped job would break
// the promise the handle represents, so broker errors surface to the caller.
func (q *JobQueue) Enqueue(ctx context.Context, payload model.JobPayload) (*model.Job, error) {
	seq, err := q.client.Incr(ctx, q.key("id"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	id := strconv.FormatInt(seq, 10)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	now := q.now().UTC()
	job := &model.Job{
		ID:          id,
		Payload:     payload,
		State:       model.JobStateWaiting,
		MaxAttempts: q.cfg.Attempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = q.client.HSet(ctx, q.key("job", id),
		"type", string(payload.Type),
		"payload", string(data),
		"state", string(model.JobStateWaiting),
		"attempts", 0,
		"max_attempts", q.cfg.Attempts,
		"progress", 0,
		"created_at", now.Format(time.RFC3339Nano),
		"updated_at", now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	if err := q.client.LPush(ctx, q.key("wait"), id); err != nil {
		// The hash alone is an orphan no worker will ever pick up.
		_ = q.client.Del(ctx, q.key("job", id))
		return nil, fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}

	q.log.Debug().Str("queue", q.name).Str("job_id", id).Msg("job enqueued")
	return job, nil
}

func (q *JobQueue) GetJob(ctx context.Context, id string) (*model.Job, error) {
	fields, err := q.client.HGetAll(ctx, q.key("job", id))
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	return jobFromHash(id, fields)
}

// Dequeue moves one waiting job to the active list and claims it for the
// caller. The RPOPLPUSH is what guarantees no two workers get the same id.
func (q *JobQueue) Dequeue(ctx context.Context) (*model.Job, error) {
	id, err := q.client.RPopLPush(ctx, q.key("wait"), q.key("active"))
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("dequeue: %w", err)
	}

	job, err := q.GetJob(ctx, id)
	if err != nil {
		// Hash gone but id still queued; drop the orphan.
		_, _ = q.client.LRem(ctx, q.key("active"), 0, id)
		return nil, domain.ErrNotFound
	}

	now := q.now().UTC()
	if err := q.client.HSet(ctx, q.key("job", id),
		"state", string(model.JobStateActive),
		"updated_at", now.Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("mark active: %w", err)
	}
	if err := q.client.Set(ctx, q.key("beat", id), "1", q.cfg.Timeout+heartbeatMargin); err != nil {
		q.log.Warn().Err(err).Str("job_id", id).Msg("heartbeat set failed")
	}

	job.State = model.JobStateActive
	job.UpdatedAt = now
	return job, nil
}

// Progress records a coarse milestone so polling clients see movement instead
// of a single waiting→completed jump. Not strictly monotonic by design.
func (q *JobQueue) Progress(ctx context.Context, id string, pct int) error {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if err := q.client.HSet(ctx, q.key("job", id),
		"progress", pct,
		"updated_at", q.now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	// Progress doubles as a heartbeat.
	return q.client.Set(ctx, q.key("beat", id), "1", q.cfg.Timeout+heartbeatMargin)
}

func (q *JobQueue) Complete(ctx context.Context, id string, result any) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if _, err := q.client.LRem(ctx, q.key("active"), 0, id); err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	if err := q.client.HSet(ctx, q.key("job", id),
		"state", string(model.JobStateCompleted),
		"progress", 100,
		"result", string(data),
		"updated_at", q.now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	_ = q.client.Del(ctx, q.key("beat", id))
	_ = q.client.Expire(ctx, q.key("job", id), terminalJobTTL)
	q.retain(ctx, "completed", id, q.cfg.KeepCompleted)

	metrics.IncJob(q.name, "completed")
	q.log.Info().Str("queue", q.name).Str("job_id", id).Msg("job completed")
	return nil
}

// Fail records one failed attempt. While the attempt budget lasts, the job is
// parked in the delayed zset until its backoff elapses; Maintain promotes it
// back to waiting. On exhaustion the job is failed permanently with the last
// error's message as the failure reason.
func (q *JobQueue) Fail(ctx context.Context, id string, cause error) (bool, error) {
	if _, err := q.client.LRem(ctx, q.key("active"), 0, id); err != nil {
		return false, fmt.Errorf("fail: %w", err)
	}
	_ = q.client.Del(ctx, q.key("beat", id))

	attempts, err := q.client.HIncrBy(ctx, q.key("job", id), "attempts", 1)
	if err != nil {
		return false, fmt.Errorf("fail: %w", err)
	}

	now := q.now().UTC()
	if int(attempts) < q.cfg.Attempts {
		readyAt := now.Add(q.backoff(int(attempts)))
		if err := q.client.HSet(ctx, q.key("job", id),
			"state", string(model.JobStateDelayed),
			"updated_at", now.Format(time.RFC3339Nano),
		); err != nil {
			return false, fmt.Errorf("fail: %w", err)
		}
		if err := q.client.ZAdd(ctx, q.key("delayed"), float64(readyAt.UnixMilli()), id); err != nil {
			return false, fmt.Errorf("fail: %w", err)
		}
		metrics.IncJobRetry(q.name)
		q.log.Warn().Err(cause).Str("queue", q.name).Str("job_id", id).
			Int64("attempt", attempts).Time("retry_at", readyAt).Msg("job attempt failed, rescheduled")
		return true, nil
	}

	if err := q.client.HSet(ctx, q.key("job", id),
		"state", string(model.JobStateFailed),
		"failure_reason", cause.Error(),
		"updated_at", now.Format(time.RFC3339Nano),
	); err != nil {
		return false, fmt.Errorf("fail: %w", err)
	}
	_ = q.client.Expire(ctx, q.key("job", id), terminalJobTTL)
	q.retain(ctx, "failed", id, q.cfg.KeepFailed)

	metrics.IncJob(q.name, "failed")
	q.log.Error().Err(cause).Str("queue", q.name).Str("job_id", id).
		Int64("attempts", attempts).Msg("job failed permanently")
	return false, nil
}

// Maintain promotes delayed jobs whose backoff elapsed and reclaims stalled
// active jobs whose heartbeat lapsed. A stall consumes an attempt, so a job
// that stalls repeatedly exhausts its budget instead of looping forever.
func (q *JobQueue) Maintain(ctx context.Context) error {
	nowMilli := q.now().UnixMilli()
	due, err := q.client.ZRangeByScore(ctx, q.key("delayed"), "-inf", strconv.FormatInt(nowMilli, 10))
	if err != nil {
		return fmt.Errorf("promote delayed: %w", err)
	}
	for _, id := range due {
		// The ZREM is the claim: with several maintainers running, only the
		// one that actually removed the member may push the id back to wait.
		removed, err := q.client.ZRem(ctx, q.key("delayed"), id)
		if err != nil || removed == 0 {
			continue
		}
		_ = q.client.HSet(ctx, q.key("job", id),
			"state", string(model.JobStateWaiting),
			"updated_at", q.now().UTC().Format(time.RFC3339Nano),
		)
		if err := q.client.LPush(ctx, q.key("wait"), id); err != nil {
			q.log.Error().Err(err).Str("job_id", id).Msg("promote failed")
		}
	}

	active, err := q.client.LRange(ctx, q.key("active"), 0, -1)
	if err != nil {
		return fmt.Errorf("scan active: %w", err)
	}
	for _, id := range active {
		n, err := q.client.Exists(ctx, q.key("beat", id))
		if err != nil || n > 0 {
			continue
		}
		q.reclaimStalled(ctx, id)
	}
	return nil
}

func (q *JobQueue) reclaimStalled(ctx context.Context, id string) {
	// Same claim rule as promotion: a zero LREM count means another
	// maintainer already reclaimed this id.
	removed, err := q.client.LRem(ctx, q.key("active"), 0, id)
	if err != nil || removed == 0 {
		return
	}
	q.log.Warn().Str("queue", q.name).Str("job_id", id).Msg("job stalled")
	metrics.IncJob(q.name, "stalled")

	attempts, err := q.client.HIncrBy(ctx, q.key("job", id), "attempts", 1)
	if err != nil {
		return
	}
	now := q.now().UTC()
	if int(attempts) < q.cfg.Attempts {
		_ = q.client.HSet(ctx, q.key("job", id),
			"state", string(model.JobStateWaiting),
			"updated_at", now.Format(time.RFC3339Nano),
		)
		_ = q.client.LPush(ctx, q.key("wait"), id)
		return
	}
	_ = q.client.HSet(ctx, q.key("job", id),
		"state", string(model.JobStateFailed),
		"failure_reason", "job stalled",
		"updated_at", now.Format(time.RFC3339Nano),
	)
	_ = q.client.Expire(ctx, q.key("job", id), terminalJobTTL)
	q.retain(ctx, "failed", id, q.cfg.KeepFailed)
	metrics.IncJob(q.name, "failed")
}

func (q *JobQueue) backoff(attempts int) time.Duration {
	if q.cfg.Backoff == "fixed" {
		return q.cfg.BackoffDelay
	}
	// Exponential: delay * 2^(attempts-1).
	return q.cfg.BackoffDelay << uint(attempts-1)
}

func (q *JobQueue) retain(ctx context.Context, list, id string, keep int) {
	if err := q.client.LPush(ctx, q.key(list), id); err != nil {
		return
	}
	_ = q.client.LTrim(ctx, q.key(list), 0, int64(keep)-1)
}

func jobFromHash(id string, fields map[string]string) (*model.Job, error) {
	var payload model.JobPayload
	if raw := fields["payload"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
	}

	job := &model.Job{
		ID:            id,
		Payload:       payload,
		State:         model.JobState(fields["state"]),
		FailureReason: fields["failure_reason"],
	}
	job.Attempts, _ = strconv.Atoi(fields["attempts"])
	job.MaxAttempts, _ = strconv.Atoi(fields["max_attempts"])
	job.Progress, _ = strconv.Atoi(fields["progress"])
	if raw := fields["result"]; raw != "" {
		job.Result = json.RawMessage(raw)
	}
	if t, err := time.Parse(time.RFC3339Nano, fields["created_at"]); err == nil {
		job.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		job.UpdatedAt = t
	}
	return job, nil
}
