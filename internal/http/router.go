package httpx

import (
	"log/slog"
	"net/http"

	"github.com/kingshubham139/university-chat/internal/app"
	"github.com/kingshubham139/university-chat/internal/chat"
	"github.com/kingshubham139/university-chat/internal/store"
	"github.com/kingshubham139/university-chat/internal/ws"
	"github.com/kingshubham139/university-chat/pkg/auth"
	"github.com/kingshubham139/university-chat/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub, db *store.Postgres, disp *chat.Dispatcher) http.Handler {
	mw := NewMiddleware(cfg)

	authAPI := &AuthAPI{DB: db, JWT: auth.New(cfg.JWTSecret)}
	msgAPI := &MessagesAPI{DB: db, Limit: cfg.HistoryLimit}
	adminAPI := &AdminAPI{DB: db, Chat: disp}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint (token-authenticated inside the hub)
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Auth endpoints
	mux.Handle("POST /api/auth/register", http.HandlerFunc(authAPI.Register))
	mux.Handle("POST /api/auth/login", http.HandlerFunc(authAPI.Login))
	mux.Handle("GET /api/auth/me", mw.Auth(http.HandlerFunc(authAPI.Me)))

	// History replay (JWT-protected)
	mux.Handle("GET /api/groups/{name}/messages", mw.Auth(http.HandlerFunc(msgAPI.Recent)))

	// Admin surface
	mux.Handle("GET /api/admin/messages", mw.Admin(http.HandlerFunc(adminAPI.List)))
	mux.Handle("DELETE /api/admin/messages/{id}", mw.Admin(http.HandlerFunc(adminAPI.Delete)))
	mux.Handle("POST /api/admin/users/{username}/block", mw.Admin(http.HandlerFunc(adminAPI.Block)))
	mux.Handle("POST /api/admin/users/{username}/unblock", mw.Admin(http.HandlerFunc(adminAPI.Unblock)))

	// CORS + rate limit applied globally
	return mw.Wrap(mux)
}
