package model

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ValidDifficulty reports whether d is one of the known levels. Difficulty is
// optional, so the empty value is valid too.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

const (
	// MaxQuestionsPerSession caps how many questions one session may hold.
	MaxQuestionsPerSession = 50

	MinQuestionLen = 5
	MaxQuestionLen = 2000
	MinAnswerLen   = 10
	MaxAnswerLen   = 5000

	// QuestionsPerGeneration is how many pairs one AI generation produces.
	QuestionsPerGeneration = 5
)

type Question struct {
	ID         string     `json:"id"`
	SessionID  string     `json:"session_id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	IsPinned   bool       `json:"is_pinned"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Category   string     `json:"category,omitempty"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// QuestionAnswer is one raw generated pair, before it becomes a persisted
// Question. This is also the shape stored in the content cache.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
