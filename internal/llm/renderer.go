// Package llm renders query answers through an external language model.
// Rendering is best-effort: callers must treat any error as a signal to
// fall back to local deterministic formatting.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SystemPrompt constrains the model to read-only training answers.
const SystemPrompt = `You are a helpful AI assistant for a cybersecurity training platform.

Your role is to help employees and the CISO understand training progress and status.

STRICT RULES:
1. ONLY answer questions about cybersecurity training
2. NEVER discuss topics unrelated to training
3. NEVER perform or suggest data modifications
4. NEVER execute any commands or operations
5. Be professional, clear, and concise
6. If asked about other topics, politely redirect to training-related questions

AVAILABLE INFORMATION:
- Employee training completion status
- Video completion details (4 videos total)
- Time spent on each video
- Overall progress percentage
- Global statistics (for CISO)

RESPONSE STYLE:
- Be friendly and professional
- Use clear, simple language
- Provide specific numbers when available
- Organize information clearly
- Always focus on training data

When given data, format it in a clear, readable way for the user.`

// Renderer turns a user query plus structured context into answer text.
type Renderer interface {
	Render(ctx context.Context, instructions, userQuery string, contextData any) (string, error)
}

// HTTPClient is the subset of http.Client the renderers need. It exists
// so tests can substitute a fake transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config selects and configures a renderer backend.
type Config struct {
	Provider string // "openai", "anthropic", or "" for no renderer
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// New builds a renderer for the configured provider. A blank provider
// or missing API key yields (nil, nil): no renderer, callers format
// locally. An unrecognized provider is an error.
func New(cfg Config) (Renderer, error) {
	if cfg.Provider == "" || cfg.Provider == "none" || cfg.APIKey == "" {
		return nil, nil
	}
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg), nil
	case "anthropic":
		return NewAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// buildPrompt assembles the user-turn prompt. Structured context is
// embedded as indented JSON ahead of the question.
func buildPrompt(userQuery string, contextData any) string {
	if contextData == nil {
		return userQuery
	}
	encoded, err := json.MarshalIndent(contextData, "", "  ")
	if err != nil {
		return userQuery
	}
	var b strings.Builder
	b.WriteString("RELEVANT DATA:\n")
	b.Write(encoded)
	b.WriteString("\n\nUSER QUESTION: ")
	b.WriteString(userQuery)
	b.WriteString("\n\nProvide a clear, natural response based on the data above.")
	return b.String()
}
