package types

import "strings"

// Language is the UI and persona language of a chat exchange.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
)

// ParseLanguage normalizes a language code. Anything other than German falls
// back to English.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(LanguageGerman):
		return LanguageGerman
	default:
		return LanguageEnglish
	}
}

// Toggle returns the other supported language.
func (l Language) Toggle() Language {
	if l == LanguageGerman {
		return LanguageEnglish
	}
	return LanguageGerman
}

type ChatRequest struct {
	Message  string   `json:"message"`
	Language Language `json:"language,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorKind classifies a failed chat exchange so clients do not have to
// re-derive it from the error text.
type ErrorKind string

const (
	KindConfiguration    ErrorKind = "configuration"
	KindValidation       ErrorKind = "validation"
	KindMethodNotAllowed ErrorKind = "method_not_allowed"
	KindAuthentication   ErrorKind = "authentication"
	KindRateLimit        ErrorKind = "rate_limit"
	KindUpstream         ErrorKind = "upstream"
	KindTransport        ErrorKind = "transport"
)

type ErrorResponse struct {
	Error   string    `json:"error"`
	Details string    `json:"details,omitempty"`
	Kind    ErrorKind `json:"kind,omitempty"`
}

// Error strings returned by the proxy.
const (
	ErrMethodNotAllowed = "Method not allowed"
	ErrConfiguration    = "Configuration error"
	ErrInvalidBody      = "Invalid request body"
	ErrMessageRequired  = "Message is required"
	ErrAuthentication   = "Authentication error"
	ErrRateLimit        = "Rate limit exceeded"
	ErrGeneric          = "An error occurred while processing your request"
)
