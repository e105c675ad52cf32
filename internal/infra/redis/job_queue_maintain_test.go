package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
)

// Two worker processes run Maintain against the same queue. The ZREM claim
// must keep a delayed job from being promoted onto the wait list twice.
func TestMaintainPromotionClaimedOnce(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient()
	q1 := newTestQueue(fc, testQueueConfig())
	q2 := newTestQueue(fc, testQueueConfig())

	if _, err := q1.Enqueue(ctx, generationPayload("u1")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := q1.Dequeue(ctx); err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	retried, err := q1.Fail(ctx, "1", errors.New("model overloaded"))
	if err != nil || !retried {
		t.Fatalf("fail: retried=%v err=%v", retried, err)
	}
	fc.advance(3 * time.Second)

	// The competing maintainer squeezes in between this one's delayed-set
	// read and its claim, and promotes the job first.
	fc.afterZRangeByScore = func() {
		fc.afterZRangeByScore = nil
		if err := q2.Maintain(ctx); err != nil {
			t.Errorf("competing maintain: %v", err)
		}
	}
	if err := q1.Maintain(ctx); err != nil {
		t.Fatalf("maintain: %v", err)
	}

	wait, err := fc.LRange(ctx, "queue:question-generation:wait", 0, -1)
	if err != nil {
		t.Fatalf("lrange: %v", err)
	}
	if len(wait) != 1 || wait[0] != "1" {
		t.Fatalf("job promoted more than once: wait=%v", wait)
	}

	if _, err := q1.Dequeue(ctx); err != nil {
		t.Fatalf("dequeue promoted job: %v", err)
	}
	if _, err := q1.Dequeue(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second claim must find nothing, got %v", err)
	}
}

// Same race on the stalled path: only one maintainer may reclaim, so a stall
// charges exactly one attempt.
func TestMaintainReclaimClaimedOnce(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient()
	cfg := testQueueConfig()
	q1 := newTestQueue(fc, cfg)
	q2 := newTestQueue(fc, cfg)

	if _, err := q1.Enqueue(ctx, generationPayload("u1")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := q1.Dequeue(ctx); err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	fc.advance(cfg.Timeout + heartbeatMargin + time.Second)

	fc.afterLRange = func() {
		fc.afterLRange = nil
		if err := q2.Maintain(ctx); err != nil {
			t.Errorf("competing maintain: %v", err)
		}
	}
	if err := q1.Maintain(ctx); err != nil {
		t.Fatalf("maintain: %v", err)
	}

	job, err := q1.GetJob(ctx, "1")
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if job.State != model.JobStateWaiting {
		t.Fatalf("expected waiting after reclaim, got %s", job.State)
	}
	if job.Attempts != 1 {
		t.Fatalf("stall must charge one attempt, got %d", job.Attempts)
	}

	wait, err := fc.LRange(ctx, "queue:question-generation:wait", 0, -1)
	if err != nil {
		t.Fatalf("lrange: %v", err)
	}
	if len(wait) != 1 {
		t.Fatalf("job reclaimed more than once: wait=%v", wait)
	}
}

func TestEnqueueFailedPushLeavesNoOrphan(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient()
	q := newTestQueue(fc, testQueueConfig())

	fc.failWith("LPUSH", errors.New("connection reset"))
	if _, err := q.Enqueue(ctx, generationPayload("u1")); !errors.Is(err, domain.ErrQueueUnavailable) {
		t.Fatalf("expected ErrQueueUnavailable, got %v", err)
	}

	// The consumed id must not leave a hash behind that no worker will run.
	fc.failWith("LPUSH", nil)
	if _, err := q.GetJob(ctx, "1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for orphan hash, got %v", err)
	}
}
