package proxy

import (
	"encoding/json"
	"net/http"
	"strings"

	"portfolio-chat/internal/types"
	"portfolio-chat/internal/upstream"
)

// SetCORSHeaders applies the fixed header set every chat response carries.
func SetCORSHeaders(h http.Header, allowedOrigin string) {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	h.Set("Access-Control-Allow-Origin", allowedOrigin)
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a structured error body. Callers set headers first.
func WriteError(w http.ResponseWriter, status int, kind types.ErrorKind, msg, details string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Details: details, Kind: kind})
}

// classifyUpstream maps an upstream failure to the response status and body.
// The status mirrors the upstream HTTP status when one is known.
func classifyUpstream(err error) (int, types.ErrorResponse) {
	status := http.StatusInternalServerError
	body := types.ErrorResponse{
		Error:   types.ErrGeneric,
		Details: err.Error(),
		Kind:    types.KindUpstream,
	}

	ue, ok := upstream.AsError(err)
	if !ok {
		return status, body
	}
	if ue.StatusCode >= 400 {
		status = ue.StatusCode
	}
	if msg := strings.TrimSpace(ue.Message); msg != "" {
		body.Details = msg
	} else if ue.Cause != nil {
		body.Details = ue.Cause.Error()
	}
	switch ue.StatusCode {
	case http.StatusUnauthorized:
		body.Error = types.ErrAuthentication
		body.Kind = types.KindAuthentication
	case http.StatusTooManyRequests:
		body.Error = types.ErrRateLimit
		body.Kind = types.KindRateLimit
	}
	return status, body
}
