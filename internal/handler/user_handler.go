/*
Package handler provides HTTP handler functions for user listing, role
assignment, and avatar management.
*/
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"murmur/internal/app/db"
	"murmur/internal/app/storage"
	"murmur/internal/app/user"
	"murmur/internal/pkg/auth/jwt"
	"murmur/internal/pkg/errs"
	"murmur/internal/pkg/logx"
	"murmur/internal/pkg/req"
	"murmur/internal/pkg/resp"
)

const (
	// maxAvatarSize is the upload limit for avatar images (5 MB).
	maxAvatarSize = 5 * 1024 * 1024

	// presignUploadDuration is how long an avatar upload URL stays valid.
	presignUploadDuration = 5 * time.Minute
)

// avatarExtToMIME maps permitted avatar file extensions to their MIME types.
var avatarExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// HandleListUsers returns every account as its client-facing view.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.DB.ListUsers(r.Context())
		if err != nil {
			logx.Error(err, "failed to list users")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		views := make([]user.User, 0, len(users))
		for _, u := range users {
			views = append(views, deps.userView(r.Context(), u))
		}

		resp.RespondSuccess(w, r, map[string]any{"users": views})
	}
}

type AssignRoleInput struct {
	Role string `json:"role"`
}

// HandleAssignRole updates a user's role. Admin-gated by the router; the role
// value is validated against the closed enumeration. Existing tokens keep the
// old role until they expire.
func HandleAssignRole(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input AssignRoleInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		role, err := user.ParseRole(input.Role)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoleInvalid))
			return
		}

		username := chi.URLParam(r, "username")

		updated, err := deps.DB.UpdateUserRole(r.Context(), username, string(role))
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}

			logx.Error(err, "failed to update user role", "username", username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("role assigned", "username", username, "role", string(role))
		resp.RespondSuccess(w, r, map[string]any{"user": deps.userView(r.Context(), updated)})
	}
}

type PresignAvatarInput struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignAvatar validates the candidate avatar file and returns a
// presigned upload URL bound to its type and size.
func HandlePresignAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		var input PresignAvatarInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.FileSize <= 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		if input.FileSize > maxAvatarSize {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileSizeTooLarge))
			return
		}

		ext := strings.ToLower(filepath.Ext(input.FileName))
		mimeType, ok := avatarExtToMIME[ext]
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileTypeInvalid))
			return
		}

		key := fmt.Sprintf("avatars/%s/%s%s", identity.ID, uuid.NewString(), ext)

		uploadURL, err := deps.Storage.PresignUpload(r.Context(), key, mimeType, input.FileSize, presignUploadDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"uploadUrl": uploadURL,
			"key":       key,
		})
	}
}

type ConfirmAvatarInput struct {
	Key string `json:"key"`
}

// HandleConfirmAvatar records an uploaded avatar after verifying the object
// actually exists with an allowed type and size, then deletes the replaced
// object.
func HandleConfirmAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		var input ConfirmAvatarInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		// The key must live under the caller's own avatar prefix.
		if !strings.HasPrefix(input.Key, fmt.Sprintf("avatars/%s/", identity.ID)) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		info, err := deps.Storage.Head(r.Context(), input.Key)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		allowed := false
		for _, mimeType := range avatarExtToMIME {
			if strings.EqualFold(info.ContentType, mimeType) {
				allowed = true
				break
			}
		}
		if !allowed {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileTypeInvalid))
			return
		}
		if info.ContentLength > maxAvatarSize {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileSizeTooLarge))
			return
		}

		oldKey, err := deps.DB.UpdateUserAvatar(r.Context(), identity.ID, input.Key)
		if err != nil {
			logx.Error(err, "failed to record avatar key", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if oldKey != "" && oldKey != input.Key {
			if err := deps.Storage.Delete(r.Context(), oldKey); err != nil {
				logx.Warn("failed to delete replaced avatar object", "key", oldKey, "error", err)
			}
		}

		avatarURL, err := deps.Storage.PresignDownload(r.Context(), input.Key, avatarURLDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"avatarUrl": avatarURL})
	}
}
