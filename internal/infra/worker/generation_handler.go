package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/adapter"
	"interview-prep-backend/internal/domain/ports/repository"
)

// Progress milestones reported while a generation job runs. Coarse on
// purpose: polling clients only need to see the job moving.
const (
	progressStarted   = 10
	progressPrompted  = 30
	progressGenerated = 60
	progressParsed    = 80
)

var _ Handler = (*GenerationHandler)(nil)

// GenerationHandler runs one question-generation job: prompt, AI call,
// parse, persist, warm the cache.
type GenerationHandler struct {
	ai        adapter.TextGenerator
	questions repository.QuestionRepository
	cache     repository.QuestionCache
	analytics repository.AnalyticsTracker
	log       *zerolog.Logger
}

func NewGenerationHandler(
	ai adapter.TextGenerator,
	questions repository.QuestionRepository,
	cache repository.QuestionCache,
	analytics repository.AnalyticsTracker,
	logger *zerolog.Logger,
) *GenerationHandler {
	return &GenerationHandler{ai: ai, questions: questions, cache: cache, analytics: analytics, log: logger}
}

func (h *GenerationHandler) Handle(ctx context.Context, job *model.Job, progress func(int)) (any, error) {
	p := job.Payload.Generation
	if p == nil {
		return nil, fmt.Errorf("%w: generation job without generation payload", domain.ErrInvalidArgument)
	}
	progress(progressStarted)

	prompt := BuildGenerationPrompt(p.Role, p.Experience, p.Topics)
	progress(progressPrompted)

	completion, err := h.ai.GenerateCompletion(ctx, SystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	progress(progressGenerated)

	pairs, err := ParseQuestions(completion)
	if err != nil {
		return nil, err
	}
	progress(progressParsed)

	now := time.Now().UTC()
	created := make([]*model.Question, 0, len(pairs))
	for _, pair := range pairs {
		created = append(created, &model.Question{
			ID:        uuid.NewString(),
			SessionID: p.SessionID,
			Question:  pair.Question,
			Answer:    pair.Answer,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := h.questions.InsertMany(ctx, created); err != nil {
		return nil, fmt.Errorf("persist questions: %w", err)
	}

	// Warm the cache with the raw pairs so the next identical request is
	// served synchronously. Fail-open: Set never reports errors.
	h.cache.Set(ctx, p.CacheKey, pairs)

	if err := h.analytics.TrackActivity(ctx, p.UserID, "questions_generated", map[string]any{
		"session_id": p.SessionID,
		"count":      len(created),
	}); err != nil {
		h.log.Warn().Err(err).Str("job_id", job.ID).Msg("analytics tracking failed")
	}

	return model.GenerationResult{Count: len(created), Questions: created}, nil
}
