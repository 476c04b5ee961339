package widget

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"portfolio-chat/internal/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want MessageKey
	}{
		{"nil", nil, MessageDefault},
		{"plain error", errors.New("boom"), MessageDefault},
		{"transport", &TransportError{Err: errors.New("dial tcp")}, MessageDefault},
		{"kind configuration", &ProxyError{Status: 500, Kind: types.KindConfiguration}, MessageConfiguration},
		{"kind authentication", &ProxyError{Status: 401, Kind: types.KindAuthentication}, MessageAuthentication},
		{"kind rate limit", &ProxyError{Status: 429, Kind: types.KindRateLimit}, MessageRateLimit},
		{"kind wins over text", &ProxyError{Status: 400, Message: "rate limit words", Kind: types.KindValidation}, MessageDefault},
		{"text configuration", &ProxyError{Status: 500, Message: "Configuration error"}, MessageConfiguration},
		{"text authentication", &ProxyError{Status: 500, Message: "AUTHENTICATION ERROR"}, MessageAuthentication},
		{"text rate limit in details", &ProxyError{Status: 500, Message: "oops", Details: "Rate limit reached"}, MessageRateLimit},
		{"status 401", &ProxyError{Status: http.StatusUnauthorized}, MessageAuthentication},
		{"status 429", &ProxyError{Status: http.StatusTooManyRequests}, MessageRateLimit},
		{"generic", &ProxyError{Status: 500, Message: types.ErrGeneric}, MessageDefault},
		{"wrapped", errors.Wrap(&ProxyError{Status: 429, Kind: types.KindRateLimit}, "send"), MessageRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	de := StringsFor(types.LanguageGerman)
	assert.Equal(t, de.ErrDefault, de.ErrorMessage(MessageDefault))
	assert.Equal(t, de.ErrConfiguration, de.ErrorMessage(MessageConfiguration))
	assert.Equal(t, de.ErrAuthentication, de.ErrorMessage(MessageAuthentication))
	assert.Equal(t, de.ErrRateLimit, de.ErrorMessage(MessageRateLimit))
}
