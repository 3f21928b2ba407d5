package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/seclearn/trainquery/internal/domain"
	"github.com/seclearn/trainquery/internal/llm"
	"github.com/seclearn/trainquery/internal/metrics"
)

// Agent runs the full query pipeline: guardrail validation,
// authentication check, intent classification, permission-scoped data
// assembly, and rendering. Every failure path yields a structured
// QueryResult; the agent never returns an error for a user mistake,
// only for store-level faults.
type Agent struct {
	guardrails *Guardrails
	parser     *IntentParser
	auth       *AuthService
	training   *TrainingService
	renderer   llm.Renderer // nil means always format locally
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewAgent wires the pipeline. renderer may be nil.
func NewAgent(auth *AuthService, training *TrainingService, renderer llm.Renderer, m *metrics.Metrics, logger *slog.Logger) *Agent {
	return &Agent{
		guardrails: NewGuardrails(),
		parser:     NewIntentParser(),
		auth:       auth,
		training:   training,
		renderer:   renderer,
		metrics:    m,
		logger:     logger,
	}
}

// QueryResult is the structured outcome of one query.
type QueryResult struct {
	Success      bool   `json:"success"`
	Response     string `json:"response"`
	Intent       Intent `json:"intent,omitempty"`
	ContextData  any    `json:"context_data,omitempty"`
	RequiresAuth bool   `json:"requires_auth"`
}

// ProcessQuery answers one natural-language question for a session.
func (a *Agent) ProcessQuery(ctx context.Context, query, sessionID string) (*QueryResult, error) {
	if ok, reason := a.guardrails.Validate(query); !ok {
		a.metrics.GuardrailRejections.WithLabelValues(rejectionRule(reason)).Inc()
		a.metrics.QueriesTotal.WithLabelValues("", "rejected").Inc()
		a.logger.Info("query rejected by guardrails", "rule", rejectionRule(reason))
		return &QueryResult{Success: false, Response: reason}, nil
	}

	if !a.auth.IsAuthenticated(ctx, sessionID) {
		a.metrics.QueriesTotal.WithLabelValues("", "auth_required").Inc()
		return &QueryResult{
			Success:      false,
			Response:     "Please authenticate with your employee ID and name first.",
			RequiresAuth: true,
		}, nil
	}

	parsed := a.parser.Parse(query)
	isCISO := a.auth.IsCISO(ctx, sessionID)

	if a.parser.IsCISOQuery(query) && !isCISO {
		a.metrics.QueriesTotal.WithLabelValues(string(parsed.Intent), "forbidden").Inc()
		return &QueryResult{
			Success:  false,
			Response: "You don't have permission to access company-wide statistics. CISO access required.",
			Intent:   parsed.Intent,
		}, nil
	}

	employeeID := a.auth.AuthenticatedEmployeeID(ctx, sessionID)
	contextData, err := a.contextData(ctx, parsed, employeeID, isCISO)
	if err != nil {
		a.metrics.QueriesTotal.WithLabelValues(string(parsed.Intent), "error").Inc()
		return nil, err
	}

	response := a.render(ctx, query, contextData)
	a.metrics.QueriesTotal.WithLabelValues(string(parsed.Intent), "ok").Inc()
	return &QueryResult{
		Success:     true,
		Response:    a.guardrails.Sanitize(response),
		Intent:      parsed.Intent,
		ContextData: contextData,
	}, nil
}

// render calls the language model, substituting the deterministic
// formatter when no renderer is configured or the call fails.
func (a *Agent) render(ctx context.Context, query string, contextData any) string {
	if a.renderer == nil {
		return FormatFallback(contextData)
	}
	response, err := a.renderer.Render(ctx, llm.SystemPrompt, query, contextData)
	if err != nil {
		a.metrics.RendererFallbacks.Inc()
		a.logger.Warn("renderer failed, using local formatter", "error", err)
		return FormatFallback(contextData)
	}
	return response
}

// contextData assembles the intent's data scope. A privileged caller
// naming another employee redirects the subject to that employee; the
// company-wide intents are served only to privileged callers, everyone
// else falls through to their own full status.
func (a *Agent) contextData(ctx context.Context, parsed *ParsedQuery, employeeID string, isCISO bool) (any, error) {
	targetID := employeeID
	if isCISO && parsed.EmployeeName != "" {
		emp, err := a.training.GetEmployeeByName(ctx, parsed.EmployeeName)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return map[string]any{
					"error": fmt.Sprintf("Employee '%s' not found in database", parsed.EmployeeName),
				}, nil
			}
			return nil, err
		}
		targetID = emp.ID
	}

	switch parsed.Intent {
	case IntentEmployeeStatus:
		return a.training.GetEmployeeStatus(ctx, targetID)

	case IntentCheckCompletion:
		status, err := a.training.GetEmployeeStatus(ctx, targetID)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"training_completed":    status.Status == domain.StatusFinished,
			"completion_percentage": status.CompletionPercentage,
			"completed_videos":      status.CompletedVideos,
			"missing_videos":        status.MissingVideos,
		}, nil

	case IntentListCompletedVideos:
		status, err := a.training.GetEmployeeStatus(ctx, targetID)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"completed_videos": status.CompletedVideos,
			"video_details":    filterVideos(status.VideoDetails, true),
		}, nil

	case IntentListMissingVideos:
		status, err := a.training.GetEmployeeStatus(ctx, targetID)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"missing_videos": status.MissingVideos,
			"video_details":  filterVideos(status.VideoDetails, false),
		}, nil

	case IntentVideoDuration:
		status, err := a.training.GetEmployeeStatus(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if parsed.VideoNumber != nil {
			for _, v := range status.VideoDetails {
				if v.VideoNumber == *parsed.VideoNumber {
					return map[string]any{"video": v}, nil
				}
			}
			return map[string]any{}, nil
		}
		return map[string]any{"all_videos": status.VideoDetails}, nil

	case IntentGlobalSummary:
		if isCISO {
			return a.training.GlobalSummary(ctx)
		}

	case IntentListByStatus:
		if isCISO {
			if parsed.Status == nil {
				return map[string]any{}, nil
			}
			employees, err := a.training.EmployeesByStatus(ctx, *parsed.Status)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"status":    *parsed.Status,
				"employees": employees,
				"count":     len(employees),
			}, nil
		}

	case IntentListByVideoCount:
		if isCISO {
			if parsed.VideoCountFilter == nil {
				return map[string]any{}, nil
			}
			f := parsed.VideoCountFilter
			employees, err := a.training.EmployeesByVideoCount(ctx, f.Count, f.Operator)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"filter":    fmt.Sprintf("%s %d videos", f.Operator, f.Count),
				"employees": employees,
				"count":     len(employees),
			}, nil
		}
	}

	// General questions, and company-wide intents from non-privileged
	// callers, answer with the caller's own full status.
	return a.training.GetEmployeeStatus(ctx, targetID)
}

func filterVideos(details []domain.VideoDetail, completed bool) []domain.VideoDetail {
	out := make([]domain.VideoDetail, 0, len(details))
	for _, v := range details {
		if v.Completed == completed {
			out = append(out, v)
		}
	}
	return out
}

// rejectionRule maps a guardrail message to its metric label.
func rejectionRule(message string) string {
	switch message {
	case msgEmptyQuery:
		return "empty"
	case msgQueryTooLong:
		return "too_long"
	case msgSQLInjection:
		return "injection"
	case msgForbidden:
		return "forbidden_keyword"
	case msgOffTopic:
		return "off_topic"
	default:
		return "other"
	}
}
