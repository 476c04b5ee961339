package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newOpenAITestServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAI_Complete(t *testing.T) {
	var seen map[string]any
	srv := newOpenAITestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-3.5-turbo",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hi, I am Gordon's assistant."}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 7, "total_tokens": 17}
	}`, &seen)

	c := NewOpenAI("test-key", "gpt-3.5-turbo", srv.URL+"/v1")
	reply, err := c.Complete(context.Background(), Completion{
		System:      "persona",
		Message:     "hello",
		Temperature: 0.7,
		MaxTokens:   150,
	})
	require.NoError(t, err)
	require.Equal(t, "Hi, I am Gordon's assistant.", reply)

	require.Equal(t, "gpt-3.5-turbo", seen["model"])
	require.EqualValues(t, 150, seen["max_tokens"])
	require.InDelta(t, 0.7, seen["temperature"], 1e-6)
	msgs := seen["messages"].([]any)
	require.Len(t, msgs, 2)
	require.Equal(t, "system", msgs[0].(map[string]any)["role"])
	require.Equal(t, "persona", msgs[0].(map[string]any)["content"])
	require.Equal(t, "user", msgs[1].(map[string]any)["role"])
	require.Equal(t, "hello", msgs[1].(map[string]any)["content"])
}

func TestOpenAI_Complete_APIError(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusUnauthorized,
		`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`, nil)

	c := NewOpenAI("test-key", "gpt-3.5-turbo", srv.URL+"/v1")
	_, err := c.Complete(context.Background(), Completion{System: "persona", Message: "hello"})
	require.Error(t, err)

	ue, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, "openai", ue.Provider)
	require.Equal(t, http.StatusUnauthorized, ue.StatusCode)
	require.Equal(t, "Incorrect API key provided", ue.Message)
	require.True(t, IsAuth(err))
	require.False(t, IsRateLimit(err))
}

func TestOpenAI_Complete_RequestErrorWithoutPayload(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusTooManyRequests, `slow down`, nil)

	c := NewOpenAI("test-key", "gpt-3.5-turbo", srv.URL+"/v1")
	_, err := c.Complete(context.Background(), Completion{System: "persona", Message: "hello"})

	ue, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusTooManyRequests, ue.StatusCode)
	require.Empty(t, ue.Message)
	require.True(t, IsRateLimit(err))
}

func TestOpenAI_Complete_NoChoices(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusOK, `{"id": "x", "choices": []}`, nil)

	c := NewOpenAI("test-key", "gpt-3.5-turbo", srv.URL+"/v1")
	_, err := c.Complete(context.Background(), Completion{System: "persona", Message: "hello"})

	ue, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadGateway, ue.StatusCode)
	require.Equal(t, MsgEmptyCompletion, ue.Message)
}

func TestOpenAI_Complete_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewOpenAI("test-key", "gpt-3.5-turbo", url+"/v1")
	_, err := c.Complete(context.Background(), Completion{System: "persona", Message: "hello"})

	ue, ok := AsError(err)
	require.True(t, ok)
	require.Zero(t, ue.StatusCode)
	require.NotNil(t, ue.Cause)
}
