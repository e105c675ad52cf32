package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
)

type AddQuestionRequest struct {
	Question   string           `json:"question"`
	Answer     string           `json:"answer"`
	Difficulty model.Difficulty `json:"difficulty"`
	Category   string           `json:"category"`
}

type UpdateQuestionRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Note     string `json:"note"`
	Category string `json:"category"`
}

type QuestionUseCase interface {
	// Add inserts a hand-written question, subject to the same per-session
	// quota as generated ones.
	Add(ctx context.Context, userID, sessionID string, req AddQuestionRequest) (*model.Question, error)
	List(ctx context.Context, userID, sessionID string) ([]*model.Question, error)
	// Search filters one of the caller's sessions by a free-text query.
	Search(ctx context.Context, userID, sessionID, query string) ([]*model.Question, error)
	TogglePin(ctx context.Context, userID, questionID string) (*model.Question, error)
	Update(ctx context.Context, userID, questionID string, req UpdateQuestionRequest) (*model.Question, error)
	Delete(ctx context.Context, userID, questionID string) error
}

var _ QuestionUseCase = (*questionUseCase)(nil)

type questionUseCase struct {
	sessions  repository.SessionRepository
	questions repository.QuestionRepository
	log       *zerolog.Logger
}

func NewQuestionUseCase(sessions repository.SessionRepository, questions repository.QuestionRepository, logger *zerolog.Logger) QuestionUseCase {
	return &questionUseCase{sessions: sessions, questions: questions, log: logger}
}

func (uc *questionUseCase) Add(ctx context.Context, userID, sessionID string, req AddQuestionRequest) (*model.Question, error) {
	question := strings.TrimSpace(req.Question)
	answer := strings.TrimSpace(req.Answer)

	var fields []string
	if len(question) < model.MinQuestionLen || len(question) > model.MaxQuestionLen {
		fields = append(fields, "question")
	}
	if len(answer) < model.MinAnswerLen || len(answer) > model.MaxAnswerLen {
		fields = append(fields, "answer")
	}
	if !model.ValidDifficulty(req.Difficulty) {
		fields = append(fields, "difficulty")
	}
	if err := domain.NewValidationError(fields...); err != nil {
		return nil, err
	}

	if err := uc.authorizeSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	count, err := uc.questions.CountBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxQuestionsPerSession {
		return nil, domain.ErrQuotaExceeded
	}

	now := time.Now().UTC()
	q := &model.Question{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Question:   question,
		Answer:     answer,
		Difficulty: req.Difficulty,
		Category:   strings.TrimSpace(req.Category),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.questions.InsertMany(ctx, []*model.Question{q}); err != nil {
		return nil, err
	}
	return q, nil
}

func (uc *questionUseCase) List(ctx context.Context, userID, sessionID string) ([]*model.Question, error) {
	if err := uc.authorizeSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return uc.questions.FindBySession(ctx, sessionID)
}

func (uc *questionUseCase) Search(ctx context.Context, userID, sessionID, query string) ([]*model.Question, error) {
	query = strings.TrimSpace(query)
	var fields []string
	if query == "" {
		fields = append(fields, "q")
	}
	if strings.TrimSpace(sessionID) == "" {
		fields = append(fields, "sessionId")
	}
	if err := domain.NewValidationError(fields...); err != nil {
		return nil, err
	}
	if err := uc.authorizeSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return uc.questions.Search(ctx, sessionID, query)
}

func (uc *questionUseCase) TogglePin(ctx context.Context, userID, questionID string) (*model.Question, error) {
	q, err := uc.authorizeQuestion(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}
	pinned := !q.IsPinned
	if err := uc.questions.SetPinned(ctx, questionID, pinned); err != nil {
		return nil, err
	}
	q.IsPinned = pinned
	return q, nil
}

func (uc *questionUseCase) Update(ctx context.Context, userID, questionID string, req UpdateQuestionRequest) (*model.Question, error) {
	q, err := uc.authorizeQuestion(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(req.Question); v != "" {
		if len(v) < model.MinQuestionLen || len(v) > model.MaxQuestionLen {
			return nil, domain.NewValidationError("question")
		}
		q.Question = v
	}
	if v := strings.TrimSpace(req.Answer); v != "" {
		if len(v) < model.MinAnswerLen || len(v) > model.MaxAnswerLen {
			return nil, domain.NewValidationError("answer")
		}
		q.Answer = v
	}
	q.Note = strings.TrimSpace(req.Note)
	if v := strings.TrimSpace(req.Category); v != "" {
		q.Category = v
	}

	if err := uc.questions.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (uc *questionUseCase) Delete(ctx context.Context, userID, questionID string) error {
	if _, err := uc.authorizeQuestion(ctx, userID, questionID); err != nil {
		return err
	}
	return uc.questions.Delete(ctx, questionID)
}

func (uc *questionUseCase) authorizeSession(ctx context.Context, userID, sessionID string) error {
	session, err := uc.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return domain.ErrForbidden
	}
	return nil
}

// authorizeQuestion resolves the question and checks ownership through its
// parent session.
func (uc *questionUseCase) authorizeQuestion(ctx context.Context, userID, questionID string) (*model.Question, error) {
	q, err := uc.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeSession(ctx, userID, q.SessionID); err != nil {
		return nil, err
	}
	return q, nil
}
