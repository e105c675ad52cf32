package repository

import (
	"context"

	"interview-prep-backend/internal/domain/model"
)

// JobQueue is the producer-side view of a queue. Enqueue returns a handle
// immediately; it never waits for processing. Unlike the content cache the
// queue is not fail-open: an enqueue error must surface to the caller,
// because a 202 response promises the job exists.
type JobQueue interface {
	Enqueue(ctx context.Context, payload model.JobPayload) (*model.Job, error)
	GetJob(ctx context.Context, id string) (*model.Job, error)
}

// JobConsumer is the worker-side view. The queue owns every state
// transition; workers only ask for work and report what happened.
type JobConsumer interface {
	// Dequeue pops one waiting job and marks it active, or returns
	// domain.ErrNotFound when nothing is waiting.
	Dequeue(ctx context.Context) (*model.Job, error)
	// Progress records a coarse completion percentage and refreshes the
	// job's heartbeat.
	Progress(ctx context.Context, id string, pct int) error
	Complete(ctx context.Context, id string, result any) error
	// Fail records a failed attempt. If the attempt budget is not exhausted
	// the job is rescheduled after the queue's backoff and retried reports
	// true; otherwise the job lands in the failed state permanently.
	Fail(ctx context.Context, id string, cause error) (retried bool, err error)
	// Maintain promotes due delayed jobs and reclaims stalled ones. Called
	// periodically by the worker loop.
	Maintain(ctx context.Context) error
}
