package widget

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"portfolio-chat/internal/types"
)

// MessageKey selects one of the four localized error texts.
type MessageKey int

const (
	MessageDefault MessageKey = iota
	MessageConfiguration
	MessageAuthentication
	MessageRateLimit
)

func (c MessageKey) String() string {
	switch c {
	case MessageConfiguration:
		return "configuration"
	case MessageAuthentication:
		return "authentication"
	case MessageRateLimit:
		return "rate_limit"
	default:
		return "default"
	}
}

// Classify maps a failed send to an error message key. The proxy's structured
// kind wins; older proxies without one are matched on the error text, then
// on the HTTP status.
func Classify(err error) MessageKey {
	var perr *ProxyError
	if !errors.As(err, &perr) {
		return MessageDefault
	}
	switch perr.Kind {
	case types.KindConfiguration:
		return MessageConfiguration
	case types.KindAuthentication:
		return MessageAuthentication
	case types.KindRateLimit:
		return MessageRateLimit
	case "":
	default:
		return MessageDefault
	}

	text := strings.ToLower(perr.Message + " " + perr.Details)
	switch {
	case strings.Contains(text, "configuration"):
		return MessageConfiguration
	case strings.Contains(text, "authentication"):
		return MessageAuthentication
	case strings.Contains(text, "rate limit"):
		return MessageRateLimit
	}

	switch perr.Status {
	case http.StatusUnauthorized:
		return MessageAuthentication
	case http.StatusTooManyRequests:
		return MessageRateLimit
	}
	return MessageDefault
}
