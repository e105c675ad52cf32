package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
	"interview-prep-backend/internal/infra/metrics"
)

const (
	pollInterval        = 500 * time.Millisecond
	maintenanceInterval = 5 * time.Second
)

// Handler executes one job and returns its result payload. Returning an
// error ends the attempt; the queue decides whether the job runs again.
type Handler interface {
	Handle(ctx context.Context, job *model.Job, progress func(int)) (any, error)
}

// Queue is the consumer contract plus the policy accessors the processor
// needs to size its pool and bound each attempt.
type Queue interface {
	repository.JobConsumer
	Name() string
	Timeout() time.Duration
	Concurrency() int
}

// Processor drains one queue. It polls on a ticker and hands each claimed
// job to the pool, so at most Concurrency jobs run at once per process.
// Outcome notifications are published here, not in the handlers: only the
// processor knows whether a failure was final or will be retried.
type Processor struct {
	queue   Queue
	pool    *Pool
	handler Handler
	hub     repository.NotificationHub
	log     *zerolog.Logger
}

func NewProcessor(queue Queue, handler Handler, hub repository.NotificationHub, logger *zerolog.Logger) *Processor {
	return &Processor{
		queue:   queue,
		pool:    NewPool(queue.Concurrency(), logger),
		handler: handler,
		hub:     hub,
		log:     logger,
	}
}

// Start runs the polling and maintenance loops until ctx is cancelled.
// Should be run in a goroutine.
func (p *Processor) Start(ctx context.Context) {
	p.log.Info().Str("queue", p.queue.Name()).Int("concurrency", p.queue.Concurrency()).Msg("processor started")
	p.pool.Start(ctx)

	poll := time.NewTicker(pollInterval)
	defer poll.Stop()
	maintain := time.NewTicker(maintenanceInterval)
	defer maintain.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Str("queue", p.queue.Name()).Msg("processor stopping")
			p.pool.Stop()
			return
		case <-maintain.C:
			if err := p.queue.Maintain(ctx); err != nil {
				p.log.Error().Err(err).Str("queue", p.queue.Name()).Msg("queue maintenance failed")
			}
		case <-poll.C:
			_ = p.pool.Submit(func(ctx context.Context) error {
				p.processOne(ctx)
				return nil
			})
		}
	}
}

func (p *Processor) processOne(ctx context.Context) {
	job, err := p.queue.Dequeue(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.log.Error().Err(err).Str("queue", p.queue.Name()).Msg("dequeue failed")
		}
		return
	}

	log := p.log.With().Str("queue", p.queue.Name()).Str("job_id", job.ID).Logger()
	log.Info().Str("type", string(job.Payload.Type)).Msg("processing job")
	start := time.Now()

	// Bound the attempt. The heartbeat outlives this deadline by a margin,
	// so a timed-out attempt is failed here rather than reclaimed as stalled.
	jobCtx, cancel := context.WithTimeout(ctx, p.queue.Timeout())
	defer cancel()

	result, err := p.handler.Handle(jobCtx, job, func(pct int) {
		if perr := p.queue.Progress(jobCtx, job.ID, pct); perr != nil {
			log.Warn().Err(perr).Msg("progress update failed")
		}
	})

	// State updates use a fresh context so a cancelled job still records
	// its outcome.
	done := context.Background()
	metrics.ObserveJobDuration(p.queue.Name(), time.Since(start).Seconds())

	if err != nil {
		retried, ferr := p.queue.Fail(done, job.ID, err)
		if ferr != nil {
			log.Error().Err(ferr).Msg("recording job failure failed")
			return
		}
		if !retried {
			p.hub.Publish(done, job.Payload.UserID(),
				model.NewJobFailedEvent(job.Payload.Type, job.ID, err.Error()))
		}
		return
	}

	if cerr := p.queue.Complete(done, job.ID, result); cerr != nil {
		log.Error().Err(cerr).Msg("recording job completion failed")
		return
	}
	p.hub.Publish(done, job.Payload.UserID(),
		model.NewJobCompleteEvent(job.Payload.Type, job.ID, result))
	log.Info().Dur("duration", time.Since(start)).Msg("job done")
}
