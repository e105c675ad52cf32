package adapter

import "context"

// TextGenerator is the text-completion collaborator. Prompt in, raw text
// out; parsing and validation of the output belong to the caller. Errors are
// returned as-is so the queue's uniform attempt budget governs retries.
type TextGenerator interface {
	GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
