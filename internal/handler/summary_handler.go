/*
Package handler provides HTTP handler functions for conversation summaries.

A summary request reads the most recent window of a conversation's history,
renders each message as a "sender: content" line in chronological order, and
hands the transcript to the summarization engine. Summaries are computed on
demand and never stored.
*/
package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"murmur/internal/pkg/auth/jwt"
	"murmur/internal/pkg/errs"
	"murmur/internal/pkg/logx"
	"murmur/internal/pkg/resp"
)

// summaryWindow is the number of most recent messages fed to the engine.
const summaryWindow = 20

func summarizeRoom(deps *AppDeps) func(w http.ResponseWriter, r *http.Request, room string) {
	return func(w http.ResponseWriter, r *http.Request, room string) {
		messages, err := deps.DB.ListRecentMessages(r.Context(), room, summaryWindow)
		if err != nil {
			logx.Error(err, "failed to load messages for summary", "room", room)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		lines := make([]string, 0, len(messages))
		for _, message := range chronological(messages) {
			lines = append(lines, fmt.Sprintf("%s: %s", message.Sender, message.Content))
		}

		summaryText, err := deps.Summarizer.Summarize(r.Context(), lines)
		if err != nil {
			logx.Error(err, "summary generation failed", "room", room)
			resp.RespondError(w, r, errs.NewError(errs.ErrSummaryFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"summary": summaryText})
	}
}

// HandleChannelSummary summarizes the recent history of a channel.
func HandleChannelSummary(deps *AppDeps) http.HandlerFunc {
	summarize := summarizeRoom(deps)

	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		if customErr := channelExists(r.Context(), deps, name); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		summarize(w, r, name)
	}
}

// HandleDMSummary summarizes the recent history of a DM conversation.
func HandleDMSummary(deps *AppDeps) http.HandlerFunc {
	summarize := summarizeRoom(deps)

	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		room, customErr := dmRoom(r.Context(), deps, identity, chi.URLParam(r, "username"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		summarize(w, r, room)
	}
}
