package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/seclearn/trainquery/internal/domain"
	"github.com/seclearn/trainquery/internal/service"
)

// AuthHandler handles credential submission.
type AuthHandler struct {
	auth   *service.AuthService
	cookie CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

// HandleAuthenticate records credential fields on the session; either
// or both may be present, accumulated across requests.
// POST /api/authenticate
// Request:  {"session_id":"...","employee_id":123,"employee_name":"..."}
// Response: {"success":...,"message":"...","session_id":"...","is_authenticated":...,"is_ciso":...,"missing_fields":[...]}
func (h *AuthHandler) HandleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID    string  `json:"session_id"`
		EmployeeID   *int64  `json:"employee_id"`
		EmployeeName *string `json:"employee_name"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	sessionID := resolveSessionID(r, req.SessionID, h.cookie.Secret)
	if sessionID == "" {
		writeError(w, http.StatusUnauthorized, "No session. Create a session first.")
		return
	}

	result, err := h.auth.SubmitCredentials(r.Context(), sessionID, req.EmployeeID, req.EmployeeName)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSession) {
			writeError(w, http.StatusUnauthorized, "Session expired or unknown. Create a session first.")
			return
		}
		slog.Error("authenticate", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":          result.Success,
		"message":          result.Message,
		"session_id":       sessionID,
		"is_authenticated": result.IsAuthenticated,
		"is_ciso":          result.IsCISO,
		"missing_fields":   result.MissingFields,
	})
}
