package handler

import (
	"context"
	"time"

	"murmur/internal/app/chat"
	"murmur/internal/app/db"
	"murmur/internal/app/storage"
	"murmur/internal/app/summary"
	"murmur/internal/app/user"
	"murmur/internal/configs"
	"murmur/internal/pkg/logx"
)

// avatarURLDuration is the lifetime of presigned avatar download URLs.
const avatarURLDuration = 1 * time.Hour

// AppDeps bundles the collaborators shared by all HTTP handlers.
type AppDeps struct {
	Hub        *chat.Hub
	Config     *configs.AppConfig
	DB         db.Store
	Storage    storage.Service
	Summarizer *summary.Engine
}

// userView converts a stored user into its client-facing representation,
// resolving the avatar key to a presigned download URL when present.
func (d *AppDeps) userView(ctx context.Context, u db.User) user.User {
	view := user.User{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	}

	if u.AvatarKey != "" && d.Storage != nil {
		url, err := d.Storage.PresignDownload(ctx, u.AvatarKey, avatarURLDuration)
		if err != nil {
			logx.Warn("Failed to presign avatar URL", "user_id", u.ID, "error", err)
		} else {
			view.AvatarURL = url
		}
	}

	return view
}
