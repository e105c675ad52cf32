package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
)

func newQuestionFixture(sessions *memSessionRepo, questions *memQuestionRepo) QuestionUseCase {
	nop := zerolog.Nop()
	return NewQuestionUseCase(sessions, questions, &nop)
}

func validAddRequest() AddQuestionRequest {
	return AddQuestionRequest{
		Question: "What is a race condition?",
		Answer:   "Concurrent access to shared state where at least one access is a write.",
		Category: "concurrency",
	}
}

func TestQuestionAdd(t *testing.T) {
	questions := newMemQuestionRepo()
	uc := newQuestionFixture(newMemSessionRepo(ownedSession("sess-1", "u1")), questions)

	q, err := uc.Add(context.Background(), "u1", "sess-1", validAddRequest())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if q.ID == "" || q.SessionID != "sess-1" || q.Category != "concurrency" {
		t.Fatalf("unexpected question: %+v", q)
	}
	if n, _ := questions.CountBySession(context.Background(), "sess-1"); n != 1 {
		t.Fatalf("expected 1 persisted question, got %d", n)
	}
}

func TestQuestionAddLengthBounds(t *testing.T) {
	uc := newQuestionFixture(newMemSessionRepo(ownedSession("sess-1", "u1")), newMemQuestionRepo())

	cases := map[string]struct {
		mutate func(*AddQuestionRequest)
		field  string
	}{
		"question too short": {func(r *AddQuestionRequest) { r.Question = "hm?" }, "question"},
		"question too long":  {func(r *AddQuestionRequest) { r.Question = strings.Repeat("q", model.MaxQuestionLen+1) }, "question"},
		"answer too short":   {func(r *AddQuestionRequest) { r.Answer = "yes" }, "answer"},
		"answer too long":    {func(r *AddQuestionRequest) { r.Answer = strings.Repeat("a", model.MaxAnswerLen+1) }, "answer"},
	}
	for name, c := range cases {
		req := validAddRequest()
		c.mutate(&req)

		_, err := uc.Add(context.Background(), "u1", "sess-1", req)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected validation error, got %v", name, err)
			continue
		}
		if len(verr.Fields) != 1 || verr.Fields[0] != c.field {
			t.Errorf("%s: expected field %q, got %v", name, c.field, verr.Fields)
		}
	}
}

func TestQuestionAddRejectsUnknownDifficulty(t *testing.T) {
	uc := newQuestionFixture(newMemSessionRepo(ownedSession("sess-1", "u1")), newMemQuestionRepo())

	req := validAddRequest()
	req.Difficulty = "brutal"
	_, err := uc.Add(context.Background(), "u1", "sess-1", req)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0] != "difficulty" {
		t.Fatalf("expected field %q, got %v", "difficulty", verr.Fields)
	}

	req.Difficulty = model.DifficultyHard
	if _, err := uc.Add(context.Background(), "u1", "sess-1", req); err != nil {
		t.Fatalf("known difficulty rejected: %v", err)
	}
}

func TestQuestionAddQuota(t *testing.T) {
	questions := newMemQuestionRepo()
	questions.seed("sess-1", model.MaxQuestionsPerSession)
	uc := newQuestionFixture(newMemSessionRepo(ownedSession("sess-1", "u1")), questions)

	if _, err := uc.Add(context.Background(), "u1", "sess-1", validAddRequest()); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestQuestionListOwnership(t *testing.T) {
	questions := newMemQuestionRepo()
	questions.seed("sess-1", 3)
	uc := newQuestionFixture(newMemSessionRepo(ownedSession("sess-1", "u1")), questions)

	qs, err := uc.List(context.Background(), "u1", "sess-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(qs))
	}

	if _, err := uc.List(context.Background(), "u2", "sess-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign session, got %v", err)
	}
}

func TestQuestionSearch(t *testing.T) {
	questions := newMemQuestionRepo()
	_ = questions.InsertMany(context.Background(), []*model.Question{
		{ID: "q1", SessionID: "sess-1", Question: "Explain Goroutine scheduling", Answer: "The runtime multiplexes goroutines onto threads."},
		{ID: "q2", SessionID: "sess-1", Question: "What is an index?", Answer: "A lookup structure.", Category: "databases"},
		{ID: "q3", SessionID: "sess-2", Question: "Goroutines again", Answer: "Different session entirely."},
	})
	uc := newQuestionFixture(newMemSessionRepo(ownedSession("sess-1", "u1")), questions)

	// Case-insensitive, scoped to the named session.
	got, err := uc.Search(context.Background(), "u1", "sess-1", "goroutine")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "q1" {
		t.Fatalf("expected q1 only, got %+v", got)
	}

	// Category text is searchable too.
	got, err = uc.Search(context.Background(), "u1", "sess-1", "DATABASES")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "q2" {
		t.Fatalf("expected q2 only, got %+v", got)
	}

	if _, err := uc.Search(context.Background(), "u2", "sess-1", "goroutine"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign session, got %v", err)
	}

	_, err = uc.Search(context.Background(), "u1", "sess-1", "   ")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 1 || verr.Fields[0] != "q" {
		t.Fatalf("expected validation error on blank query, got %v", err)
	}
}

func TestQuestionTogglePin(t *testing.T) {
	questions := newMemQuestionRepo()
	questions.seed("sess-1", 1)
	uc := newQuestionFixture(newMemSessionRepo(ownedSession("sess-1", "u1")), questions)

	q, err := uc.TogglePin(context.Background(), "u1", "sess-1-q0")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !q.IsPinned {
		t.Fatal("first toggle should pin")
	}
	if stored, _ := questions.FindByID(context.Background(), "sess-1-q0"); !stored.IsPinned {
		t.Fatal("pin not persisted")
	}
	q, err = uc.TogglePin(context.Background(), "u1", "sess-1-q0")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if q.IsPinned {
		t.Fatal("second toggle should unpin")
	}

	if _, err := uc.TogglePin(context.Background(), "u2", "sess-1-q0"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden through parent session, got %v", err)
	}
}

func TestQuestionUpdatePartial(t *testing.T) {
	questions := newMemQuestionRepo()
	questions.seed("sess-1", 1)
	uc := newQuestionFixture(newMemSessionRepo(ownedSession("sess-1", "u1")), questions)

	q, err := uc.Update(context.Background(), "u1", "sess-1-q0", UpdateQuestionRequest{
		Note: "revisit before the onsite",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if q.Question != "seeded?" || q.Note != "revisit before the onsite" {
		t.Fatalf("partial update touched the wrong fields: %+v", q)
	}

	if _, err := uc.Update(context.Background(), "u1", "sess-1-q0", UpdateQuestionRequest{Answer: "no"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected length check on provided answer, got %v", err)
	}
}

func TestQuestionDelete(t *testing.T) {
	questions := newMemQuestionRepo()
	questions.seed("sess-1", 1)
	uc := newQuestionFixture(newMemSessionRepo(ownedSession("sess-1", "u1")), questions)

	if err := uc.Delete(context.Background(), "u2", "sess-1-q0"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := uc.Delete(context.Background(), "u1", "sess-1-q0"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := uc.Delete(context.Background(), "u1", "sess-1-q0"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
