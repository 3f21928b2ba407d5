package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/seclearn/trainquery/internal/service"
)

// ChatHandler handles natural-language queries.
type ChatHandler struct {
	agent  *service.Agent
	cookie CookieConfig
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(agent *service.Agent, cookie CookieConfig) *ChatHandler {
	return &ChatHandler{agent: agent, cookie: cookie}
}

// HandleChat runs one query through the agent pipeline.
// POST /api/chat
// Request:  {"query":"...","session_id":"..."}
// Response: {"success":...,"response":"...","intent":"...","requires_auth":...,"context_data":{...}}
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string `json:"query"`
		SessionID string `json:"session_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	sessionID := resolveSessionID(r, req.SessionID, h.cookie.Secret)

	result, err := h.agent.ProcessQuery(r.Context(), strings.TrimSpace(req.Query), sessionID)
	if err != nil {
		slog.Error("process query", "error", err)
		writeJSON(w, http.StatusOK, service.QueryResult{
			Success:  false,
			Response: "An error occurred while processing your query. Please try again.",
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
