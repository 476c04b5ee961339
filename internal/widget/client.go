package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"portfolio-chat/internal/types"
)

// maxResponseBytes bounds how much of a proxy response is read.
const maxResponseBytes = 1 << 20

// ProxyError is a non-2xx or malformed response from the proxy. Message
// carries the body's "error" field.
type ProxyError struct {
	Status  int
	Message string
	Details string
	Kind    types.ErrorKind
}

func (e *ProxyError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Details != "" {
		return fmt.Sprintf("proxy %d: %s: %s", e.Status, msg, e.Details)
	}
	return fmt.Sprintf("proxy %d: %s", e.Status, msg)
}

// TransportError means the proxy itself could not be reached.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "reach chat proxy: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// Client posts widget requests to the proxy endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a proxy client; a nil httpClient uses http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Chat sends one request and waits for exactly one reply.
func (c *Client) Chat(ctx context.Context, req types.ChatRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", errors.Wrap(err, "encode chat request")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build chat request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &TransportError{Err: errors.Wrap(err, "read response")}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body types.ErrorResponse
		// a non-JSON error body still yields a usable status
		_ = json.Unmarshal(raw, &body)
		return "", &ProxyError{
			Status:  resp.StatusCode,
			Message: body.Error,
			Details: body.Details,
			Kind:    body.Kind,
		}
	}

	var out struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.Response == nil {
		return "", &ProxyError{Status: resp.StatusCode, Message: "malformed response", Kind: types.KindUpstream}
	}
	return *out.Response, nil
}
