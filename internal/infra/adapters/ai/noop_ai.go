package ai

import (
	"context"

	"interview-prep-backend/internal/domain/ports/adapter"
)

var _ adapter.TextGenerator = (*NoopGenerator)(nil)

// NoopGenerator returns a fixed completion. Handy for dev mode and demos
// where no AI key is configured.
type NoopGenerator struct {
	Response string
}

func (n *NoopGenerator) GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if n.Response != "" {
		return n.Response, nil
	}
	return `[{"question": "What does this role involve?", "answer": "Placeholder answer for development mode."}]`, nil
}
