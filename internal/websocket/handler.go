package websocket

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// Handler upgrades requests to WebSocket connections and attaches them to hub.
// An empty Origin header is accepted; otherwise the origin must be listed in
// allowedOrigins or the list must contain "*".
func Handler(hub *Hub, allowedOrigins []string, logger *slog.Logger) http.HandlerFunc {
	logger = logger.With(slog.String("component", "websocket.handler"))

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || strings.EqualFold(allowed, origin) {
					return true
				}
			}
			logger.WarnContext(r.Context(), "websocket origin not allowed",
				slog.String("origin", origin),
				slog.Any("allowed_origins", allowedOrigins))
			return false
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already written the HTTP error response.
			logger.WarnContext(ctx, "websocket upgrade failed",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr))
			return
		}

		client := NewClient(hub, NewConnectionWrapper(conn), middleware.GetReqID(ctx), logger)
		logger.InfoContext(ctx, "websocket client connected",
			slog.String("client_id", client.ID()),
			slog.String("remote_addr", r.RemoteAddr))
		client.Serve()
	}
}
