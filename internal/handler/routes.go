package handler

import (
	"net/http"

	"github.com/seclearn/trainquery/internal/metrics"
	"github.com/seclearn/trainquery/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. limiter may
// be nil to disable chat rate limiting.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	training *service.TrainingService,
	agent *service.Agent,
	m *metrics.Metrics,
	limiter *service.TokenBucket,
	cookie CookieConfig,
) {
	sessionHandler := NewSessionHandler(auth, m, cookie)
	authHandler := NewAuthHandler(auth, cookie)
	chatHandler := NewChatHandler(agent, cookie)
	statusHandler := NewStatusHandler(auth, training, cookie)

	mux.Handle("POST /api/session/create",
		ObserveDuration(m, "session_create", http.HandlerFunc(sessionHandler.HandleCreate)))
	mux.Handle("POST /api/session/logout",
		ObserveDuration(m, "session_logout", http.HandlerFunc(sessionHandler.HandleLogout)))
	mux.Handle("POST /api/authenticate",
		ObserveDuration(m, "authenticate", http.HandlerFunc(authHandler.HandleAuthenticate)))
	mux.Handle("POST /api/chat",
		ObserveDuration(m, "chat", RateLimit(limiter, http.HandlerFunc(chatHandler.HandleChat))))
	mux.Handle("POST /api/status/employee",
		ObserveDuration(m, "status_employee", http.HandlerFunc(statusHandler.HandleEmployeeStatus)))
	mux.Handle("POST /api/status/all",
		ObserveDuration(m, "status_all", http.HandlerFunc(statusHandler.HandleGlobalStatus)))
	mux.HandleFunc("GET /api/health", HandleHealth)
	mux.Handle("GET /metrics", m.Handler())
}
