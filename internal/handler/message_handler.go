/*
Package handler provides HTTP handler functions for channel messages.

The broadcast to the realtime layer always happens after the persistence
write; a failed write therefore never produces an orphaned broadcast.
*/
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"murmur/internal/app/db"
	"murmur/internal/pkg/auth/jwt"
	"murmur/internal/pkg/errs"
	"murmur/internal/pkg/logx"
	"murmur/internal/pkg/req"
	"murmur/internal/pkg/resp"
)

const (
	// maxMessageBytes bounds message content length.
	maxMessageBytes = 5000

	// defaultHistoryLimit and maxHistoryLimit bound message list reads.
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

type CreateMessageInput struct {
	Content string `json:"content"`
}

// historyLimit parses the optional ?limit query parameter.
func historyLimit(r *http.Request) int {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return limit
}

// chronological reverses a newest-first message slice in place.
func chronological(messages []db.Message) []db.Message {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages
}

// channelExists resolves a channel by name, mapping a missing row to
// ErrChannelNotFound.
func channelExists(ctx context.Context, deps *AppDeps, name string) *errs.CustomError {
	if _, err := deps.DB.GetChannelByName(ctx, name); err != nil {
		if db.IsNotFound(err) {
			return errs.NewError(errs.ErrChannelNotFound)
		}
		logx.Error(err, "failed to look up channel", "name", name)
		return errs.NewError(errs.ErrUnknown)
	}
	return nil
}

// HandleListChannelMessages returns a channel's recent messages in
// chronological order.
func HandleListChannelMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		if customErr := channelExists(r.Context(), deps, name); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		messages, err := deps.DB.ListRecentMessages(r.Context(), name, historyLimit(r))
		if err != nil {
			logx.Error(err, "failed to list messages", "channel", name)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"messages": chronological(messages)})
	}
}

// HandleCreateChannelMessage persists a message and fans it out to the
// channel's room.
func HandleCreateChannelMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		name := chi.URLParam(r, "name")

		var input CreateMessageInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Content == "" || len(input.Content) > maxMessageBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageContentInvalid))
			return
		}

		if customErr := channelExists(r.Context(), deps, name); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		message, err := deps.DB.CreateMessage(r.Context(), db.CreateMessageParams{
			Sender:  identity.Username,
			Content: input.Content,
			Channel: name,
		})
		if err != nil {
			logx.Error(err, "failed to create message", "channel", name)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Hub.BroadcastNewMessage(message)

		resp.RespondSuccess(w, r, map[string]any{"message": message})
	}
}

// HandleDeleteMessage hard-deletes a message. Only the sender or an admin may
// delete; the deletion is announced to every connected client, which filters
// by id.
func HandleDeleteMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		id := chi.URLParam(r, "id")

		message, err := deps.DB.GetMessageByID(r.Context(), id)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrMessageNotFound))
				return
			}

			logx.Error(err, "failed to look up message", "id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if message.Sender != identity.Username && !identity.Role.CanAdminister() {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotMessageSender))
			return
		}

		if err := deps.DB.DeleteMessage(r.Context(), id); err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrMessageNotFound))
				return
			}

			logx.Error(err, "failed to delete message", "id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Hub.BroadcastMessageDeleted(id)

		resp.RespondSuccess(w, r, map[string]any{"deleted": id})
	}
}
