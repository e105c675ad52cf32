package worker

import (
	"encoding/json"
	"strings"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
)

// ParseQuestions recovers question/answer pairs from a raw model completion.
// Models wrap output in markdown fences or append prose despite instructions,
// so the parser extracts the first balanced JSON array and decodes only that.
// Entries missing a question or an answer are dropped; at most
// QuestionsPerGeneration pairs survive.
func ParseQuestions(raw string) ([]model.QuestionAnswer, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.ErrEmptyCompletion
	}

	raw = stripFences(raw)
	arr, ok := firstArray(raw)
	if !ok {
		return nil, domain.ErrMalformedCompletion
	}

	var decoded []model.QuestionAnswer
	if err := json.Unmarshal([]byte(arr), &decoded); err != nil {
		return nil, domain.ErrMalformedCompletion
	}

	pairs := decoded[:0]
	for _, p := range decoded {
		p.Question = strings.TrimSpace(p.Question)
		p.Answer = strings.TrimSpace(p.Answer)
		if p.Question == "" || p.Answer == "" {
			continue
		}
		pairs = append(pairs, p)
	}
	if len(pairs) == 0 {
		return nil, domain.ErrMalformedCompletion
	}
	if len(pairs) > model.QuestionsPerGeneration {
		pairs = pairs[:model.QuestionsPerGeneration]
	}
	return pairs, nil
}

// stripFences removes a leading ```json (or bare ```) fence and its closing
// fence when present. Content outside a single fenced block is left alone;
// firstArray handles the rest.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// firstArray returns the first balanced top-level JSON array in s. Bracket
// depth is tracked outside string literals only, so brackets inside question
// text cannot unbalance the scan.
func firstArray(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			if start < 0 {
				start = i
			}
			depth++
		case ']':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
