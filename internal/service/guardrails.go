package service

import (
	"regexp"
	"strings"
)

// Guardrails validates user queries before any data access and strips
// injected instruction fragments from rendered responses. All state is
// immutable after construction, so a single instance is safe for
// concurrent use.
type Guardrails struct{}

// NewGuardrails creates a Guardrails validator.
func NewGuardrails() *Guardrails {
	return &Guardrails{}
}

// allowedTopics are the training-domain keywords. A query with none of
// them and more than three words is considered off-topic.
var allowedTopics = []string{
	"training", "video", "course", "completed", "finished", "status",
	"progress", "cybersecurity", "security", "phishing", "password",
	"data protection", "incident", "response", "employee", "learning",
	"certification", "module", "lesson", "duration", "time", "hours",
	"minutes", "started", "completion", "percentage", "ciso", "department",
}

// forbiddenKeywords reject queries as substrings, case-insensitively.
// They cover data-mutation verbs, system-command words, credential
// leakage markers, and prompt-injection phrases.
var forbiddenKeywords = []string{
	// Database manipulation
	"update", "delete", "insert", "drop", "alter", "truncate", "create",
	"modify", "change", "set", "exec", "execute",
	// System commands
	"system", "shell", "cmd", "bash", "powershell", "eval", "compile",
	// Sensitive operations
	"password=", "credential", "api_key", "secret", "token",
	// Prompt injection attempts
	"ignore previous", "ignore instructions", "ignore prompt",
	"new instructions", "system prompt", "override",
}

// sqlInjectionPatterns are matched against the lowercased query.
var sqlInjectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\b(union|select|from|where)\b.*\b(select|from|where)\b)`),
	regexp.MustCompile(`(;|\-\-|\/\*|\*\/)`),
	regexp.MustCompile(`(\b(or|and)\b.*[=<>].*['"])`),
	regexp.MustCompile(`(drop\s+table)`),
	regexp.MustCompile(`(delete\s+from)`),
	regexp.MustCompile(`(update\s+\w+\s+set)`),
}

// sanitizePatterns strip instruction blocks and raw SQL fences from
// rendered responses. (?s) lets the match span newlines.
var sanitizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\[SYSTEM\].*?\[/SYSTEM\]`),
	regexp.MustCompile(`(?is)<system>.*?</system>`),
	regexp.MustCompile("(?is)```sql.*?```"),
}

// Rejection messages. Handlers and tests key off their wording, so they
// stay stable.
const (
	msgEmptyQuery   = "Please provide a query."
	msgQueryTooLong = "Query is too long. Please keep questions concise."
	msgSQLInjection = "Invalid query format detected. Please use natural language questions."
	msgForbidden    = "This query contains forbidden operations. I can only provide read-only information about training status."
	msgOffTopic     = "This query appears to be unrelated to cybersecurity training. Please ask about training videos, completion status, or employee progress."
)

// maxQueryLength bounds accepted query size in characters.
const maxQueryLength = 1000

// Validate runs all guardrail checks over the query in a fixed order,
// stopping at the first failure: blank, length, SQL injection,
// forbidden keywords, then topic relevance. Injection and forbidden
// checks run before the topic check so a malicious query never gets
// the softer off-topic message.
func (g *Guardrails) Validate(query string) (bool, string) {
	if strings.TrimSpace(query) == "" {
		return false, msgEmptyQuery
	}
	if len(query) > maxQueryLength {
		return false, msgQueryTooLong
	}

	lower := strings.ToLower(query)

	for _, p := range sqlInjectionPatterns {
		if p.MatchString(lower) {
			return false, msgSQLInjection
		}
	}

	for _, kw := range forbiddenKeywords {
		if strings.Contains(lower, kw) {
			return false, msgForbidden
		}
	}

	if !g.isTrainingRelated(lower) {
		return false, msgOffTopic
	}

	return true, ""
}

// isTrainingRelated accepts any query containing an allowed keyword.
// Short queries (three words or fewer) pass as ambiguous rather than
// off-topic.
func (g *Guardrails) isTrainingRelated(lowerQuery string) bool {
	for _, kw := range allowedTopics {
		if strings.Contains(lowerQuery, kw) {
			return true
		}
	}
	return len(strings.Fields(lowerQuery)) <= 3
}

// Sanitize removes instruction blocks ([SYSTEM]...[/SYSTEM],
// <system>...</system>) and sql-fenced code from a rendered response
// and trims surrounding whitespace. Sanitize is idempotent.
func (g *Guardrails) Sanitize(response string) string {
	sanitized := response
	for _, p := range sanitizePatterns {
		sanitized = p.ReplaceAllString(sanitized, "")
	}
	return strings.TrimSpace(sanitized)
}

// RejectionHelp is the standard guidance returned alongside off-topic
// rejections in interactive clients.
func (g *Guardrails) RejectionHelp() string {
	return "I can only answer questions about cybersecurity training. " +
		"Please ask about:\n" +
		"- Training completion status\n" +
		"- Video progress and duration\n" +
		"- Employee training statistics\n" +
		"- CISO reports and summaries"
}
