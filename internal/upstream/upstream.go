// Package upstream wraps the third-party completion APIs behind a single
// "system prompt + user message in, text out" capability.
package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"portfolio-chat/internal/config"
)

// Completion is one single-turn request to the upstream model.
type Completion struct {
	System      string
	Message     string
	Temperature float32
	MaxTokens   int
}

// Completer generates a reply for a single completion request.
type Completer interface {
	Complete(ctx context.Context, c Completion) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, c Completion) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, c Completion) (string, error) {
	return f(ctx, c)
}

// MsgEmptyCompletion is reported when the upstream answers without any text.
const MsgEmptyCompletion = "empty completion"

// Error is a provider-neutral upstream failure. StatusCode is 0 when the
// request failed before an HTTP response was received.
type Error struct {
	Provider   string
	StatusCode int
	// Message is the error text reported in the upstream payload, if any.
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "http %d", e.StatusCode)
	} else {
		b.WriteString("request failed")
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	} else if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts *Error from err.
func AsError(err error) (*Error, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

func IsAuth(err error) bool {
	ue, ok := AsError(err)
	return ok && ue.StatusCode == http.StatusUnauthorized
}

func IsRateLimit(err error) bool {
	ue, ok := AsError(err)
	return ok && ue.StatusCode == http.StatusTooManyRequests
}

// New builds the completer for the configured provider. It returns nil when
// the provider's credential is missing.
func New(cfg config.Config) Completer {
	if cfg.APIKey() == "" {
		return nil
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	}
}
