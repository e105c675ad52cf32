package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
)

// GenerateRequest is the producer's input, field names as the API exposes
// them so validation errors can name what the client actually sent.
type GenerateRequest struct {
	Role       string   `json:"role"`
	Experience string   `json:"experience"`
	Topics     []string `json:"topicsToFocus"`
	SessionID  string   `json:"sessionId"`
}

// GenerateOutcome is either an immediate cache-served result (Cached true,
// Questions populated) or an accepted job handle (Job populated).
type GenerateOutcome struct {
	Cached    bool
	Questions []*model.Question
	Job       *model.Job
}

// JobStatusView is what the status endpoints reveal about a job. Result and
// FailureReason are only set in the matching terminal state.
type JobStatusView struct {
	JobID         string
	State         model.JobState
	Progress      int
	Result        json.RawMessage
	FailureReason string
}

type GenerationUseCase interface {
	// Generate serves from cache when the parameter fingerprint matches a
	// previous generation, otherwise enqueues an asynchronous job.
	Generate(ctx context.Context, userID string, req GenerateRequest) (*GenerateOutcome, error)
	// Status returns the job's state to its owner only.
	Status(ctx context.Context, userID, jobID string) (*JobStatusView, error)
}

var _ GenerationUseCase = (*generationUseCase)(nil)

type generationUseCase struct {
	sessions  repository.SessionRepository
	questions repository.QuestionRepository
	cache     repository.QuestionCache
	queue     repository.JobQueue
	limiter   repository.RateLimiter
	analytics repository.AnalyticsTracker
	perHour   int
	log       *zerolog.Logger
}

func NewGenerationUseCase(
	sessions repository.SessionRepository,
	questions repository.QuestionRepository,
	cache repository.QuestionCache,
	queue repository.JobQueue,
	limiter repository.RateLimiter,
	analytics repository.AnalyticsTracker,
	generationPerHour int,
	logger *zerolog.Logger,
) GenerationUseCase {
	return &generationUseCase{
		sessions:  sessions,
		questions: questions,
		cache:     cache,
		queue:     queue,
		limiter:   limiter,
		analytics: analytics,
		perHour:   generationPerHour,
		log:       logger,
	}
}

func (uc *generationUseCase) Generate(ctx context.Context, userID string, req GenerateRequest) (*GenerateOutcome, error) {
	if err := validateGenerateRequest(req); err != nil {
		return nil, err
	}

	ok, err := uc.limiter.Allow(ctx, "generate:"+userID, uc.perHour, time.Hour)
	if err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}
	if !ok {
		return nil, domain.ErrRateLimited
	}

	session, err := uc.sessions.FindByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrForbidden
	}

	count, err := uc.questions.CountBySession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxQuestionsPerSession {
		return nil, domain.ErrQuotaExceeded
	}

	key := model.Fingerprint(req.Role, req.Experience, req.Topics)

	if pairs, hit := uc.cache.Get(ctx, key); hit {
		created, err := uc.materialize(ctx, req.SessionID, pairs)
		if err != nil {
			return nil, err
		}
		uc.trackGeneration(ctx, userID, req, "cache_hit")
		return &GenerateOutcome{Cached: true, Questions: created}, nil
	}

	job, err := uc.queue.Enqueue(ctx, model.JobPayload{
		Type: model.JobTypeGeneration,
		Generation: &model.GenerationPayload{
			Role:       req.Role,
			Experience: req.Experience,
			Topics:     req.Topics,
			SessionID:  req.SessionID,
			UserID:     userID,
			CacheKey:   key,
		},
	})
	if err != nil {
		return nil, err
	}

	uc.trackGeneration(ctx, userID, req, "enqueued")
	return &GenerateOutcome{Job: job}, nil
}

func (uc *generationUseCase) Status(ctx context.Context, userID, jobID string) (*JobStatusView, error) {
	job, err := uc.queue.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Payload.UserID() != userID {
		return nil, domain.ErrForbidden
	}
	return jobStatusView(job), nil
}

// materialize turns cached pairs into persisted questions for the session.
func (uc *generationUseCase) materialize(ctx context.Context, sessionID string, pairs []model.QuestionAnswer) ([]*model.Question, error) {
	if len(pairs) > model.QuestionsPerGeneration {
		pairs = pairs[:model.QuestionsPerGeneration]
	}
	now := time.Now().UTC()
	created := make([]*model.Question, 0, len(pairs))
	for _, p := range pairs {
		created = append(created, &model.Question{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Question:  p.Question,
			Answer:    p.Answer,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := uc.questions.InsertMany(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *generationUseCase) trackGeneration(ctx context.Context, userID string, req GenerateRequest, outcome string) {
	bestEffort(uc.log, "track generation", func() error {
		return uc.analytics.TrackActivity(ctx, userID, "question_generation", map[string]any{
			"session_id": req.SessionID,
			"outcome":    outcome,
		})
	})
	bestEffort(uc.log, "topic popularity", func() error {
		return uc.analytics.IncrementTopicPopularity(ctx, req.Topics)
	})
}

func validateGenerateRequest(req GenerateRequest) error {
	var fields []string
	if strings.TrimSpace(req.Role) == "" {
		fields = append(fields, "role")
	}
	if strings.TrimSpace(req.Experience) == "" {
		fields = append(fields, "experience")
	}
	if len(req.Topics) == 0 || hasBlankTopic(req.Topics) {
		fields = append(fields, "topicsToFocus")
	}
	if strings.TrimSpace(req.SessionID) == "" {
		fields = append(fields, "sessionId")
	}
	return domain.NewValidationError(fields...)
}

// hasBlankTopic reports whether any topic trims down to nothing. Blank topics
// would otherwise leak into the cache fingerprint and the prompt.
func hasBlankTopic(topics []string) bool {
	for _, t := range topics {
		if strings.TrimSpace(t) == "" {
			return true
		}
	}
	return false
}

func jobStatusView(job *model.Job) *JobStatusView {
	view := &JobStatusView{
		JobID:    job.ID,
		State:    job.State,
		Progress: job.Progress,
	}
	switch job.State {
	case model.JobStateCompleted:
		view.Result = job.Result
	case model.JobStateFailed:
		view.FailureReason = job.FailureReason
	}
	return view
}
