package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/seclearn/trainquery/internal/metrics"
	"github.com/seclearn/trainquery/internal/service"
)

// CookieConfig carries what handlers need to issue and read session
// cookies.
type CookieConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// SessionHandler handles session lifecycle requests.
type SessionHandler struct {
	auth    *service.AuthService
	metrics *metrics.Metrics
	cookie  CookieConfig
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(auth *service.AuthService, m *metrics.Metrics, cookie CookieConfig) *SessionHandler {
	return &SessionHandler{auth: auth, metrics: m, cookie: cookie}
}

// HandleCreate opens a fresh, unauthenticated session.
// POST /api/session/create
// Response: {"session_id":"...","message":"..."}
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	session, err := h.auth.OpenSession(r.Context())
	if err != nil {
		slog.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	token, err := signSessionToken(session.ID, h.cookie.Secret, h.cookie.TTL)
	if err != nil {
		slog.Error("sign session token", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}
	setSessionCookie(w, token, h.cookie.TTL, h.cookie.Secure)
	h.metrics.SessionsOpened.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": session.ID,
		"message":    "Session created successfully. Please authenticate with your employee ID and name.",
	})
}

// HandleLogout deletes the session and clears the cookie.
// POST /api/session/logout
// Request:  {"session_id":"..."} (optional, cookie used otherwise)
// Response: {"success":true,"message":"..."}
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	_ = readJSON(r, &req) // body is optional

	sessionID := resolveSessionID(r, req.SessionID, h.cookie.Secret)
	if sessionID != "" {
		if err := h.auth.Logout(r.Context(), sessionID); err != nil {
			slog.Error("logout session", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
			return
		}
	}
	clearSessionCookie(w, h.cookie.Secure)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Session ended.",
	})
}

// resolveSessionID prefers an explicit session_id from the request body
// and falls back to the signed session cookie.
func resolveSessionID(r *http.Request, bodyID, secret string) string {
	if bodyID != "" {
		return bodyID
	}
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	sessionID, err := parseSessionToken(cookie.Value, secret)
	if err != nil {
		return ""
	}
	return sessionID
}
