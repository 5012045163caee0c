package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"murmur/internal/app/chat"
	"murmur/internal/app/db"
	"murmur/internal/app/summary"
	"murmur/internal/app/user"
	"murmur/internal/pkg/errs"
)

func decodeSummary(t *testing.T, data json.RawMessage) string {
	t.Helper()

	var payload struct {
		Summary string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	return payload.Summary
}

// userPromptOf extracts the user message from a recorded completion request
// and strips the triple-quote wrapper.
func userPromptOf(t *testing.T, request openai.ChatCompletionRequest) string {
	t.Helper()

	require.Len(t, request.Messages, 2)
	require.Equal(t, openai.ChatMessageRoleSystem, request.Messages[0].Role)
	require.Equal(t, openai.ChatMessageRoleUser, request.Messages[1].Role)

	content := request.Messages[1].Content
	require.True(t, strings.HasPrefix(content, `"""`))
	require.True(t, strings.HasSuffix(content, `"""`))
	return strings.TrimSuffix(strings.TrimPrefix(content, `"""`), `"""`)
}

func TestHandleChannelSummary_FeedsRecentHistoryInOrder(t *testing.T) {
	deps, store, fake := newTestDeps(t)
	router := Router(deps)

	fake.reply = "  - Alice and Bob traded greetings and agreed to meet at 3.\n"

	store.On("GetChannelByName", mock.Anything, "general").
		Return(db.Channel{ID: "c1", Name: "general"}, nil)

	// Newest first from the store; the prompt must read oldest first.
	store.On("ListRecentMessages", mock.Anything, "general", summaryWindow).
		Return([]db.Message{
			{ID: "m3", Sender: "alice", Content: "see you at 3"},
			{ID: "m2", Sender: "bob", Content: "yo"},
			{ID: "m1", Sender: "alice", Content: "hi"},
		}, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/channels/general/summary",
		bearerFor(t, deps, "alice", user.RoleMember), nil)

	envelope, data := decodeEnvelope(t, rec)
	require.Equal(t, 0, envelope.Code)
	assert.Equal(t, "- Alice and Bob traded greetings and agreed to meet at 3.", decodeSummary(t, data))

	requests := fake.recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, "alice: hi\nbob: yo\nalice: see you at 3", userPromptOf(t, requests[0]))
}

func TestHandleChannelSummary_EmptyHistoryShortCircuits(t *testing.T) {
	deps, store, fake := newTestDeps(t)
	router := Router(deps)

	store.On("GetChannelByName", mock.Anything, "general").
		Return(db.Channel{ID: "c1", Name: "general"}, nil)
	store.On("ListRecentMessages", mock.Anything, "general", summaryWindow).
		Return([]db.Message{}, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/channels/general/summary",
		bearerFor(t, deps, "alice", user.RoleMember), nil)

	envelope, data := decodeEnvelope(t, rec)
	require.Equal(t, 0, envelope.Code)
	assert.Equal(t, summary.EmptyHistoryFallback, decodeSummary(t, data))
	assert.Empty(t, fake.recorded())
}

func TestHandleChannelSummary_UnknownChannel(t *testing.T) {
	deps, store, fake := newTestDeps(t)
	router := Router(deps)

	store.On("GetChannelByName", mock.Anything, "ghost").
		Return(db.Channel{}, pgx.ErrNoRows)

	rec := doJSON(t, router, http.MethodGet, "/api/channels/ghost/summary",
		bearerFor(t, deps, "alice", user.RoleMember), nil)

	envelope, _ := decodeEnvelope(t, rec)
	assert.Equal(t, errs.ErrChannelNotFound, envelope.Code)
	store.AssertNotCalled(t, "ListRecentMessages", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, fake.recorded())
}

func TestHandleChannelSummary_UpstreamFailure(t *testing.T) {
	deps, store, fake := newTestDeps(t)
	router := Router(deps)

	fake.err = errors.New("upstream unavailable")

	store.On("GetChannelByName", mock.Anything, "general").
		Return(db.Channel{ID: "c1", Name: "general"}, nil)
	store.On("ListRecentMessages", mock.Anything, "general", summaryWindow).
		Return([]db.Message{{ID: "m1", Sender: "alice", Content: "hi"}}, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/channels/general/summary",
		bearerFor(t, deps, "alice", user.RoleMember), nil)

	envelope, _ := decodeEnvelope(t, rec)
	assert.Equal(t, errs.ErrSummaryFailed, envelope.Code)
}

func TestHandleDMSummary_UsesSharedDMRoom(t *testing.T) {
	deps, store, fake := newTestDeps(t)
	router := Router(deps)

	room := chat.DMRoomKey("alice", "bob")

	store.On("GetUserByUsername", mock.Anything, "bob").
		Return(db.User{ID: "u2", Username: "bob", Role: user.RoleMember}, nil)
	store.On("ListRecentMessages", mock.Anything, room, summaryWindow).
		Return([]db.Message{
			{ID: "m2", Sender: "bob", Content: "sounds good"},
			{ID: "m1", Sender: "alice", Content: "lunch at noon?"},
		}, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/dm/bob/summary",
		bearerFor(t, deps, "alice", user.RoleMember), nil)

	envelope, _ := decodeEnvelope(t, rec)
	require.Equal(t, 0, envelope.Code)

	requests := fake.recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, "alice: lunch at noon?\nbob: sounds good", userPromptOf(t, requests[0]))

	store.AssertExpectations(t)
}

func TestHandleDMSummary_RejectsSelf(t *testing.T) {
	deps, store, fake := newTestDeps(t)
	router := Router(deps)

	rec := doJSON(t, router, http.MethodGet, "/api/dm/alice/summary",
		bearerFor(t, deps, "alice", user.RoleMember), nil)

	envelope, _ := decodeEnvelope(t, rec)
	assert.Equal(t, errs.ErrSelfDirectMessage, envelope.Code)
	store.AssertNotCalled(t, "ListRecentMessages", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, fake.recorded())
}
