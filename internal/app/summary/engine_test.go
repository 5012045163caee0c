package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompletionClient records requests and replies with a canned response.
type fakeCompletionClient struct {
	requests []openai.ChatCompletionRequest
	content  string
	err      error
}

func (f *fakeCompletionClient) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, request)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestSummarize_EmptyInputShortCircuits(t *testing.T) {
	client := &fakeCompletionClient{content: "should never be used"}
	engine := NewEngine(client)

	cases := [][]string{
		nil,
		{},
		{""},
		{"", "   ", "\t", "\n"},
	}

	for _, lines := range cases {
		got, err := engine.Summarize(context.Background(), lines)
		require.NoError(t, err)
		assert.Equal(t, EmptyHistoryFallback, got)
	}

	assert.Empty(t, client.requests, "degenerate input must not trigger a completion call")
}

func TestSummarize_BuildsSinglePromptFromNonBlankLines(t *testing.T) {
	client := &fakeCompletionClient{content: "- summary"}
	engine := NewEngine(client)

	lines := []string{"alice: hi", "  ", "bob: yo", "", "alice: see you at 3"}
	_, err := engine.Summarize(context.Background(), lines)
	require.NoError(t, err)

	require.Len(t, client.requests, 1, "expected exactly one completion call")
	request := client.requests[0]

	assert.Equal(t, CompletionModel, request.Model)
	require.Len(t, request.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, request.Messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, request.Messages[1].Role)

	userContent := request.Messages[1].Content
	stripped := strings.TrimSuffix(strings.TrimPrefix(userContent, `"""`), `"""`)
	assert.Equal(t, "alice: hi\nbob: yo\nalice: see you at 3", stripped,
		"user content minus the triple-quote wrapper must equal the newline-join of non-blank lines in order")
}

func TestSummarize_BoundedSamplingParameters(t *testing.T) {
	client := &fakeCompletionClient{content: "- summary"}
	engine := NewEngine(client)

	_, err := engine.Summarize(context.Background(), []string{"alice: hi"})
	require.NoError(t, err)

	require.Len(t, client.requests, 1)
	request := client.requests[0]

	assert.GreaterOrEqual(t, request.MaxTokens, 150)
	assert.LessOrEqual(t, request.MaxTokens, 300)
	assert.GreaterOrEqual(t, request.Temperature, float32(0.5))
	assert.LessOrEqual(t, request.Temperature, float32(0.7))
}

func TestSummarize_TrimsModelOutput(t *testing.T) {
	client := &fakeCompletionClient{content: "\n  - point one\n- point two\n\n"}
	engine := NewEngine(client)

	got, err := engine.Summarize(context.Background(), []string{"alice: hi"})
	require.NoError(t, err)
	assert.Equal(t, "- point one\n- point two", got)
}

func TestSummarize_PropagatesUpstreamFailure(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("upstream unavailable")}
	engine := NewEngine(client)

	_, err := engine.Summarize(context.Background(), []string{"alice: hi"})
	assert.Error(t, err)
}

func TestSummarize_NoChoicesIsAnError(t *testing.T) {
	engine := NewEngine(&emptyChoicesClient{})

	_, err := engine.Summarize(context.Background(), []string{"alice: hi"})
	assert.Error(t, err)
}

type emptyChoicesClient struct{}

func (emptyChoicesClient) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}

func TestSummarize_NoCachingBetweenCalls(t *testing.T) {
	client := &fakeCompletionClient{content: "- summary"}
	engine := NewEngine(client)

	for range 3 {
		_, err := engine.Summarize(context.Background(), []string{"alice: hi"})
		require.NoError(t, err)
	}

	assert.Len(t, client.requests, 3, "every summary request re-calls the API")
}
