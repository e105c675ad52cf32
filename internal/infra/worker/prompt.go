package worker

import (
	"fmt"
	"strings"

	"interview-prep-backend/internal/domain/model"
)

// SystemPrompt pins the model into JSON-only output. Parsing still defends
// against fenced or chatty responses.
const SystemPrompt = "You are an expert technical interviewer. Generate valid JSON arrays only."

// BuildGenerationPrompt renders the user prompt for one generation job. The
// prompt is a pure function of the job parameters, so identical parameters
// always ask the model the same thing.
func BuildGenerationPrompt(role, experience string, topics []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d technical interview questions with detailed answers ", model.QuestionsPerGeneration)
	fmt.Fprintf(&b, "for a %s position requiring %s experience.\n", role, experience)
	fmt.Fprintf(&b, "Focus on these topics: %s.\n", strings.Join(topics, ", "))
	b.WriteString(`Return ONLY a JSON array in this exact shape, with no text before or after it: ` +
		`[{"question": "...", "answer": "..."}]`)
	return b.String()
}
