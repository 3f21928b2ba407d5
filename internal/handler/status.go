package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/seclearn/trainquery/internal/domain"
	"github.com/seclearn/trainquery/internal/service"
)

// StatusHandler serves the direct (non-conversational) status endpoints.
type StatusHandler struct {
	auth     *service.AuthService
	training *service.TrainingService
	cookie   CookieConfig
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(auth *service.AuthService, training *service.TrainingService, cookie CookieConfig) *StatusHandler {
	return &StatusHandler{auth: auth, training: training, cookie: cookie}
}

// HandleEmployeeStatus returns the detailed status projection for one
// employee. Regular callers see only themselves; a privileged caller
// may name any employee_id.
// POST /api/status/employee
// Request:  {"session_id":"...","employee_id":123}
// Response: {"success":true,"data":{...}}
func (h *StatusHandler) HandleEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  string `json:"session_id"`
		EmployeeID *int64 `json:"employee_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	sessionID := resolveSessionID(r, req.SessionID, h.cookie.Secret)
	if !h.auth.IsAuthenticated(r.Context(), sessionID) {
		writeError(w, http.StatusUnauthorized, "Not authenticated. Please authenticate first.")
		return
	}

	targetID := h.auth.AuthenticatedEmployeeID(r.Context(), sessionID)
	if req.EmployeeID != nil {
		if !h.auth.IsCISO(r.Context(), sessionID) {
			writeError(w, http.StatusForbidden, "You don't have permission to view other employees' status.")
			return
		}
		targetID = domain.NormalizeEmployeeID(*req.EmployeeID)
	}

	status, err := h.training.GetEmployeeStatus(r.Context(), targetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Employee %s not found", targetID))
			return
		}
		slog.Error("employee status", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred while retrieving status.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    status,
	})
}

// HandleGlobalStatus returns company-wide statistics, or the cohort
// with a given status when status_filter is set. Privileged only.
// POST /api/status/all
// Request:  {"session_id":"...","status_filter":"FINISHED"}
// Response: {"success":true,"data":{...}}
func (h *StatusHandler) HandleGlobalStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID    string `json:"session_id"`
		StatusFilter string `json:"status_filter"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	sessionID := resolveSessionID(r, req.SessionID, h.cookie.Secret)
	if !h.auth.IsAuthenticated(r.Context(), sessionID) {
		writeError(w, http.StatusUnauthorized, "Not authenticated. Please authenticate first.")
		return
	}
	if !h.auth.IsCISO(r.Context(), sessionID) {
		writeError(w, http.StatusForbidden, "CISO access required for global statistics.")
		return
	}

	if req.StatusFilter != "" {
		status := domain.TrainingStatus(req.StatusFilter)
		if !domain.ValidStatus(status) {
			writeError(w, http.StatusUnprocessableEntity,
				"Invalid status. Must be one of: NOT_STARTED, IN_PROGRESS, FINISHED")
			return
		}

		employees, err := h.training.EmployeesByStatus(r.Context(), status)
		if err != nil {
			slog.Error("employees by status", "error", err)
			writeError(w, http.StatusInternalServerError, "An error occurred while retrieving statistics.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"status_filter": status,
				"employees":     employees,
				"count":         len(employees),
			},
		})
		return
	}

	summary, err := h.training.GlobalSummary(r.Context())
	if err != nil {
		slog.Error("global summary", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred while retrieving statistics.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    summary,
	})
}
