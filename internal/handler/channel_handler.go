/*
Package handler provides HTTP handler functions for channel management.

Channel creation and deletion are admin actions; after the persistence write
succeeds, every connected client is told to re-fetch the channel list.
*/
package handler

import (
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"murmur/internal/app/chat"
	"murmur/internal/app/db"
	"murmur/internal/pkg/errs"
	"murmur/internal/pkg/logx"
	"murmur/internal/pkg/req"
	"murmur/internal/pkg/resp"
)

// channelNameRegex bounds channel names; the name doubles as the realtime
// room name, so it has to be stable and url-safe.
var channelNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,49}$`)

// HandleListChannels returns all channels.
func HandleListChannels(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channels, err := deps.DB.ListChannels(r.Context())
		if err != nil {
			logx.Error(err, "failed to list channels")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"channels": channels})
	}
}

type CreateChannelInput struct {
	Name string `json:"name"`
}

// HandleCreateChannel creates a channel and notifies all connected clients.
func HandleCreateChannel(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateChannelInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		// A channel name must never collide with the DM room namespace.
		if !channelNameRegex.MatchString(input.Name) || chat.IsDMRoomKey(input.Name) {
			resp.RespondError(w, r, errs.NewError(errs.ErrChannelNameInvalid))
			return
		}

		channel, err := deps.DB.CreateChannel(r.Context(), input.Name)
		if err != nil {
			if db.IsUniqueViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrChannelExists))
				return
			}

			logx.Error(err, "failed to create channel", "name", input.Name)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Hub.BroadcastChannelUpdated()

		logx.Info("channel created", "name", channel.Name)
		resp.RespondSuccess(w, r, map[string]any{"channel": channel})
	}
}

// HandleDeleteChannel hard-deletes a channel and its messages, then notifies
// all connected clients. Nothing is broadcast when the delete fails.
func HandleDeleteChannel(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		if err := deps.DB.DeleteChannel(r.Context(), name); err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrChannelNotFound))
				return
			}

			logx.Error(err, "failed to delete channel", "name", name)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Hub.BroadcastChannelUpdated()

		logx.Info("channel deleted", "name", name)
		resp.RespondSuccess(w, r, map[string]any{"deleted": name})
	}
}
