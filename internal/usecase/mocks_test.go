package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
)

type memSessionRepo struct {
	sessions map[string]*model.Session
}

func newMemSessionRepo(sessions ...*model.Session) *memSessionRepo {
	r := &memSessionRepo{sessions: map[string]*model.Session{}}
	for _, s := range sessions {
		r.sessions[s.ID] = s
	}
	return r
}

func (r *memSessionRepo) Create(ctx context.Context, s *model.Session) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *memSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (r *memSessionRepo) FindByUser(ctx context.Context, userID string) ([]*model.Session, error) {
	var out []*model.Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSessionRepo) UpdateStatus(ctx context.Context, id string, status model.SessionStatus) error {
	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	return nil
}

func (r *memSessionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

type memQuestionRepo struct {
	questions map[string]*model.Question
}

func newMemQuestionRepo() *memQuestionRepo {
	return &memQuestionRepo{questions: map[string]*model.Question{}}
}

func (r *memQuestionRepo) seed(sessionID string, n int) {
	for i := 0; i < n; i++ {
		id := sessionID + "-q" + strconv.Itoa(i)
		r.questions[id] = &model.Question{ID: id, SessionID: sessionID, Question: "seeded?", Answer: "yes"}
	}
}

func (r *memQuestionRepo) InsertMany(ctx context.Context, questions []*model.Question) error {
	for _, q := range questions {
		r.questions[q.ID] = q
	}
	return nil
}

func (r *memQuestionRepo) FindByID(ctx context.Context, id string) (*model.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return q, nil
}

func (r *memQuestionRepo) FindBySession(ctx context.Context, sessionID string) ([]*model.Question, error) {
	var out []*model.Question
	for _, q := range r.questions {
		if q.SessionID == sessionID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *memQuestionRepo) Search(ctx context.Context, sessionID, query string) ([]*model.Question, error) {
	needle := strings.ToLower(query)
	var out []*model.Question
	for _, q := range r.questions {
		if q.SessionID != sessionID {
			continue
		}
		haystack := strings.ToLower(q.Question + " " + q.Answer + " " + q.Category)
		if strings.Contains(haystack, needle) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *memQuestionRepo) CountBySession(ctx context.Context, sessionID string) (int, error) {
	qs, _ := r.FindBySession(ctx, sessionID)
	return len(qs), nil
}

func (r *memQuestionRepo) SetPinned(ctx context.Context, id string, pinned bool) error {
	q, ok := r.questions[id]
	if !ok {
		return domain.ErrNotFound
	}
	q.IsPinned = pinned
	return nil
}

func (r *memQuestionRepo) Update(ctx context.Context, q *model.Question) error {
	if _, ok := r.questions[q.ID]; !ok {
		return domain.ErrNotFound
	}
	r.questions[q.ID] = q
	return nil
}

func (r *memQuestionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.questions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.questions, id)
	return nil
}

type memCache struct {
	entries map[string][]model.QuestionAnswer
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]model.QuestionAnswer{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]model.QuestionAnswer, bool) {
	pairs, ok := c.entries[key]
	return pairs, ok
}

func (c *memCache) Set(ctx context.Context, key string, pairs []model.QuestionAnswer) {
	c.entries[key] = pairs
}

func (c *memCache) Invalidate(ctx context.Context, prefix string) {}

// memQueue records enqueued payloads and serves job lookups.
type memQueue struct {
	jobs       map[string]*model.Job
	enqueueErr error
	seq        int
}

func newMemQueue() *memQueue {
	return &memQueue{jobs: map[string]*model.Job{}}
}

func (q *memQueue) Enqueue(ctx context.Context, payload model.JobPayload) (*model.Job, error) {
	if q.enqueueErr != nil {
		return nil, q.enqueueErr
	}
	q.seq++
	job := &model.Job{
		ID:        strconv.Itoa(q.seq),
		Payload:   payload,
		State:     model.JobStateWaiting,
		CreatedAt: time.Now().UTC(),
	}
	q.jobs[job.ID] = job
	return job, nil
}

func (q *memQueue) GetJob(ctx context.Context, id string) (*model.Job, error) {
	job, ok := q.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

type memLimiter struct {
	denied bool
	calls  int
}

func (l *memLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.calls++
	return !l.denied, nil
}

type memUserRepo struct {
	users map[string]*model.User
}

func newMemUserRepo(users ...*model.User) *memUserRepo {
	r := &memUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(ctx context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrAlreadyExists
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) SetEmailVerified(ctx context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.EmailVerified = true
	return nil
}

func (r *memUserRepo) TouchLastActive(ctx context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastActiveAt = time.Now().UTC()
	return nil
}

type memOTPStore struct {
	codes     map[string]string
	verifyErr error
}

func newMemOTPStore() *memOTPStore {
	return &memOTPStore{codes: map[string]string{}}
}

func (s *memOTPStore) Issue(ctx context.Context, email string) (string, error) {
	s.codes[email] = "123456"
	return "123456", nil
}

func (s *memOTPStore) Verify(ctx context.Context, email, code string) error {
	if s.verifyErr != nil {
		return s.verifyErr
	}
	want, ok := s.codes[email]
	if !ok {
		return domain.ErrOTPExpired
	}
	if code != want {
		return domain.ErrOTPMismatch
	}
	delete(s.codes, email)
	return nil
}

type memMailer struct {
	sent []string
	err  error
}

func (m *memMailer) SendOTP(to, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

type memAnalytics struct {
	activities []string
	topics     [][]string
}

func (a *memAnalytics) TrackActivity(ctx context.Context, userID, activityType string, meta map[string]any) error {
	a.activities = append(a.activities, activityType)
	return nil
}

func (a *memAnalytics) IncrementTopicPopularity(ctx context.Context, topics []string) error {
	a.topics = append(a.topics, topics)
	return nil
}

func (a *memAnalytics) PopularTopics(ctx context.Context, limit int) ([]model.TopicCount, error) {
	return nil, nil
}

func (a *memAnalytics) RecentActivity(ctx context.Context, userID string, limit int) ([]model.ActivityEvent, error) {
	return nil, nil
}
