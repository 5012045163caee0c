/*
Package handler provides the WebSocket entry point.

Browsers cannot set an Authorization header on a WebSocket handshake, so the
token travels in the "token" query parameter. The connection is authenticated
before the upgrade; an unauthenticated request never reaches the hub.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"murmur/internal/app/chat"
	"murmur/internal/app/user"
	"murmur/internal/pkg/auth/jwt"
	"murmur/internal/pkg/errs"
	"murmur/internal/pkg/logx"
	"murmur/internal/pkg/resp"
)

// HandleWebSocket authenticates the handshake, upgrades the connection, and
// hands the resulting client to the hub.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := jwt.ParseToken(r.URL.Query().Get("token"), deps.Config.JWTSecret)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote an HTTP error response.
			logx.Warn("WebSocket upgrade failed.", "error", err.Error())
			return
		}

		client := chat.NewClient(deps.Hub, conn, user.User{
			ID:       payload.ID,
			Username: payload.Username,
			Role:     payload.Role,
		})

		deps.Hub.Register(client)

		go client.WritePump()
		client.ReadPump()
	}
}
