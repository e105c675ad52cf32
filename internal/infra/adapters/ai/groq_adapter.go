package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.TextGenerator = (*GroqAdapter)(nil)

// GroqAdapter calls an OpenAI-compatible Chat Completions endpoint (Groq by
// default). Errors come back unclassified: the queue's attempt budget decides
// what gets retried, the adapter does not.
type GroqAdapter struct {
	client openai.Client
	model  string
	enc    *tiktoken.Tiktoken
	log    *zerolog.Logger
}

func NewGroqAdapter(apiKey, baseURL, model string, logger *zerolog.Logger) (*GroqAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("groq: empty api key")
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)

	// Token estimate only; Groq models tokenize differently but cl100k_base
	// is close enough for logging.
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("groq: load encoding: %w", err)
	}

	return &GroqAdapter{client: client, model: model, enc: enc, log: logger}, nil
}

func (g *GroqAdapter) GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	promptTokens := len(g.enc.Encode(systemPrompt+userPrompt, nil, nil))
	g.log.Debug().Str("model", g.model).Int("prompt_tokens_est", promptTokens).Msg("AI call")

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(2000),
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}

	for _, c := range completion.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", domain.ErrEmptyCompletion
}
