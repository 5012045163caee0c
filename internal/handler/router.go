/*
Package handler provides the HTTP handlers and routing setup for the Murmur server.

This file defines the main Router, applying logging, CORS, and IP-based rate
limiting middleware before delegating to the per-area handlers (auth, users,
channels, messages, direct messages, summaries, and the WebSocket endpoint).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"murmur/internal/pkg/auth/jwt"
	"murmur/internal/pkg/limiter"
	"murmur/internal/pkg/logx"
	"murmur/internal/pkg/resp"
)

const (
	// AuthRate throttles signup and login attempts per IP.
	AuthRate  = 0.2
	AuthBurst = 5

	// SummaryRate throttles summary requests per IP; every request costs a
	// completion call upstream.
	SummaryRate  = 0.1
	SummaryBurst = 3
)

// Router sets up the main HTTP routing table for the application.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	summaryLimiter := limiter.NewIPRateLimiter(rate.Limit(SummaryRate), SummaryBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "Murmur Server",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Use(authLimiter.Middleware)
			auth.Post("/register", HandleRegister(deps))
			auth.Post("/login", HandleLogin(deps))
		})

		api.Group(func(priv chi.Router) {
			priv.Use(jwt.RequireAuth)

			priv.Get("/users", HandleListUsers(deps))
			priv.Post("/users/avatar/presign", HandlePresignAvatar(deps))
			priv.Post("/users/avatar", HandleConfirmAvatar(deps))

			priv.Get("/channels", HandleListChannels(deps))
			priv.Get("/channels/{name}/messages", HandleListChannelMessages(deps))
			priv.Post("/channels/{name}/messages", HandleCreateChannelMessage(deps))
			priv.Delete("/messages/{id}", HandleDeleteMessage(deps))

			priv.Get("/dm/{username}/messages", HandleListDMMessages(deps))
			priv.Post("/dm/{username}/messages", HandleCreateDMMessage(deps))

			priv.With(summaryLimiter.Middleware).Get("/channels/{name}/summary", HandleChannelSummary(deps))
			priv.With(summaryLimiter.Middleware).Get("/dm/{username}/summary", HandleDMSummary(deps))

			priv.Group(func(admin chi.Router) {
				admin.Use(jwt.RequireAdmin)
				admin.Put("/users/{username}/role", HandleAssignRole(deps))
				admin.Post("/channels", HandleCreateChannel(deps))
				admin.Delete("/channels/{name}", HandleDeleteChannel(deps))
			})
		})
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, deps))

	return r
}
