/*
Package handler provides HTTP handler functions for direct messages.

A DM conversation has no standing entity: it is addressed purely by the
deterministic room key derived from the sorted participant pair, so both
sides converge on the same history and the same realtime room.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"murmur/internal/app/chat"
	"murmur/internal/app/db"
	"murmur/internal/pkg/auth/jwt"
	"murmur/internal/pkg/errs"
	"murmur/internal/pkg/logx"
	"murmur/internal/pkg/req"
	"murmur/internal/pkg/resp"
)

// dmRoom resolves the DM room key between the caller and the named peer,
// validating that the peer exists and is not the caller.
func dmRoom(ctx context.Context, deps *AppDeps, identity *jwt.Payload, other string) (string, *errs.CustomError) {
	if other == identity.Username {
		return "", errs.NewError(errs.ErrSelfDirectMessage)
	}

	if _, err := deps.DB.GetUserByUsername(ctx, other); err != nil {
		if db.IsNotFound(err) {
			return "", errs.NewError(errs.ErrUserNotFound)
		}
		logx.Error(err, "failed to look up DM peer", "username", other)
		return "", errs.NewError(errs.ErrUnknown)
	}

	return chat.DMRoomKey(identity.Username, other), nil
}

// HandleListDMMessages returns the recent history of a DM conversation in
// chronological order.
func HandleListDMMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		room, customErr := dmRoom(r.Context(), deps, identity, chi.URLParam(r, "username"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		messages, err := deps.DB.ListRecentMessages(r.Context(), room, historyLimit(r))
		if err != nil {
			logx.Error(err, "failed to list DM messages", "room", room)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"room":     room,
			"messages": chronological(messages),
		})
	}
}

// HandleCreateDMMessage persists a direct message and fans it out to the DM
// room.
func HandleCreateDMMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		var input CreateMessageInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Content == "" || len(input.Content) > maxMessageBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageContentInvalid))
			return
		}

		room, customErr := dmRoom(r.Context(), deps, identity, chi.URLParam(r, "username"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		message, err := deps.DB.CreateMessage(r.Context(), db.CreateMessageParams{
			Sender:  identity.Username,
			Content: input.Content,
			Channel: room,
		})
		if err != nil {
			logx.Error(err, "failed to create DM message", "room", room)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Hub.BroadcastNewMessage(message)

		resp.RespondSuccess(w, r, map[string]any{"message": message})
	}
}
