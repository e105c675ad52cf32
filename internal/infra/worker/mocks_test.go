package worker

import (
	"context"
	"sync"
	"time"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
)

type fakeTextGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeTextGenerator) GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeQuestionRepo struct {
	mu       sync.Mutex
	inserted []*model.Question
	err      error
}

func (f *fakeQuestionRepo) InsertMany(ctx context.Context, questions []*model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, questions...)
	return nil
}

func (f *fakeQuestionRepo) FindByID(ctx context.Context, id string) (*model.Question, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeQuestionRepo) FindBySession(ctx context.Context, sessionID string) ([]*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Question
	for _, q := range f.inserted {
		if q.SessionID == sessionID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) Search(ctx context.Context, sessionID, query string) ([]*model.Question, error) {
	return f.FindBySession(ctx, sessionID)
}

func (f *fakeQuestionRepo) CountBySession(ctx context.Context, sessionID string) (int, error) {
	qs, _ := f.FindBySession(ctx, sessionID)
	return len(qs), nil
}

func (f *fakeQuestionRepo) SetPinned(ctx context.Context, id string, pinned bool) error { return nil }
func (f *fakeQuestionRepo) Update(ctx context.Context, q *model.Question) error         { return nil }
func (f *fakeQuestionRepo) Delete(ctx context.Context, id string) error                 { return nil }

type fakeSessionRepo struct {
	sessions map[string]*model.Session
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *model.Session) error { return nil }

func (f *fakeSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) FindByUser(ctx context.Context, userID string) ([]*model.Session, error) {
	return nil, nil
}

func (f *fakeSessionRepo) UpdateStatus(ctx context.Context, id string, status model.SessionStatus) error {
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]model.QuestionAnswer
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]model.QuestionAnswer{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]model.QuestionAnswer, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pairs, ok := f.entries[key]
	return pairs, ok
}

func (f *fakeCache) Set(ctx context.Context, key string, pairs []model.QuestionAnswer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = pairs
}

func (f *fakeCache) Invalidate(ctx context.Context, prefix string) {}

type fakeAnalytics struct {
	mu         sync.Mutex
	activities []string
}

func (f *fakeAnalytics) TrackActivity(ctx context.Context, userID, activityType string, meta map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activities = append(f.activities, activityType)
	return nil
}

func (f *fakeAnalytics) IncrementTopicPopularity(ctx context.Context, topics []string) error {
	return nil
}

func (f *fakeAnalytics) PopularTopics(ctx context.Context, limit int) ([]model.TopicCount, error) {
	return nil, nil
}

func (f *fakeAnalytics) RecentActivity(ctx context.Context, userID string, limit int) ([]model.ActivityEvent, error) {
	return nil, nil
}

type fakeHub struct {
	mu     sync.Mutex
	events map[string][]*model.NotificationEvent
}

func newFakeHub() *fakeHub {
	return &fakeHub{events: map[string][]*model.NotificationEvent{}}
}

func (f *fakeHub) Publish(ctx context.Context, userID string, event *model.NotificationEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[userID] = append(f.events[userID], event)
}

func (f *fakeHub) List(ctx context.Context, userID string, limit int) ([]*model.NotificationEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[userID], nil
}

func (f *fakeHub) MarkRead(ctx context.Context, userID string, ids []string) error { return nil }
func (f *fakeHub) Clear(ctx context.Context, userID string) error                  { return nil }

// fakeQueue drives the processor without redis. One waiting job at a time.
type fakeQueue struct {
	mu          sync.Mutex
	waiting     []*model.Job
	maxAttempts int
	timeout     time.Duration

	progress  map[string][]int
	completed map[string]any
	failed    map[string]error
}

func newFakeQueue(maxAttempts int) *fakeQueue {
	return &fakeQueue{
		maxAttempts: maxAttempts,
		timeout:     time.Minute,
		progress:    map[string][]int{},
		completed:   map[string]any{},
		failed:      map[string]error{},
	}
}

func (f *fakeQueue) add(job *model.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job.State = model.JobStateWaiting
	job.MaxAttempts = f.maxAttempts
	f.waiting = append(f.waiting, job)
}

func (f *fakeQueue) Name() string           { return "test-queue" }
func (f *fakeQueue) Timeout() time.Duration { return f.timeout }
func (f *fakeQueue) Concurrency() int       { return 1 }

func (f *fakeQueue) Dequeue(ctx context.Context) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.waiting) == 0 {
		return nil, domain.ErrNotFound
	}
	job := f.waiting[0]
	f.waiting = f.waiting[1:]
	job.State = model.JobStateActive
	return job, nil
}

func (f *fakeQueue) Progress(ctx context.Context, id string, pct int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress[id] = append(f.progress[id], pct)
	return nil
}

func (f *fakeQueue) Complete(ctx context.Context, id string, result any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed[id] = result
	return nil
}

func (f *fakeQueue) Fail(ctx context.Context, id string, cause error) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[id] = cause
	return false, nil
}

func (f *fakeQueue) Maintain(ctx context.Context) error { return nil }
