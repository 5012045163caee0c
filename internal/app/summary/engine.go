package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"murmur/internal/pkg/logx"
)

const (
	// CompletionModel is the fixed model identifier used for every summary.
	CompletionModel = openai.GPT4oMini

	// maxCompletionTokens bounds the summary length.
	maxCompletionTokens = 256

	// completionTemperature keeps output focused without being fully deterministic.
	completionTemperature = 0.6

	// EmptyHistoryFallback is returned when there is nothing to summarize.
	// It is a deterministic short-circuit; no completion call is made.
	EmptyHistoryFallback = "No messages to summarize."
)

// CompletionClient is the subset of the OpenAI client the engine needs.
// *openai.Client satisfies it.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Engine turns an ordered window of chat lines into a summary via a single
// non-streaming completion call. It holds no state between requests: every
// call re-derives the prompt and re-calls the API.
type Engine struct {
	client CompletionClient
	logger zerolog.Logger
}

// NewEngine constructs an Engine on top of the given completion client.
func NewEngine(client CompletionClient) *Engine {
	return &Engine{
		client: client,
		logger: logx.Logger().With().Str("component", "summary").Str("prompt_version", PromptVersion).Logger(),
	}
}

// Summarize summarizes the given chat lines (oldest first). Blank and
// whitespace-only lines are dropped; if nothing remains, EmptyHistoryFallback
// is returned without any external call. A failed or malformed completion
// propagates as an error; no partial summary is ever returned.
func (e *Engine) Summarize(ctx context.Context, lines []string) (string, error) {
	pruned := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			pruned = append(pruned, line)
		}
	}

	if len(pruned) == 0 {
		return EmptyHistoryFallback, nil
	}

	conversation := strings.Join(pruned, "\n")

	request := openai.ChatCompletionRequest{
		Model: CompletionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: renderUserPrompt(conversation)},
		},
		MaxTokens:   maxCompletionTokens,
		Temperature: completionTemperature,
	}

	response, err := e.client.CreateChatCompletion(ctx, request)
	if err != nil {
		e.logger.Error().Err(err).Int("line_count", len(pruned)).Msg("Completion call failed")
		return "", fmt.Errorf("completion call failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", errors.New("completion response contained no choices")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
