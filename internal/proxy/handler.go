// Package proxy implements the chat function: it validates a widget request,
// adds the persona prompt and relays one completion from the upstream API.
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"portfolio-chat/internal/persona"
	"portfolio-chat/internal/types"
	"portfolio-chat/internal/upstream"
)

// MaxBodyBytes bounds the accepted request body.
const MaxBodyBytes = 64 << 10

type Options struct {
	AllowedOrigin string
	Temperature   float32
	MaxTokens     int
	// Timeout bounds the upstream call; zero leaves it to the transport.
	Timeout time.Duration
	// APIKeyEnv names the missing credential in configuration errors.
	APIKeyEnv string
}

// Handler is stateless: every request runs validate, forward, respond and
// shares nothing with other requests. A nil completer means the upstream
// credential is not configured.
type Handler struct {
	completer upstream.Completer
	persona   *persona.Spec
	opts      Options
}

func New(completer upstream.Completer, spec *persona.Spec, opts Options) *Handler {
	if spec == nil {
		spec = persona.Default()
	}
	if opts.APIKeyEnv == "" {
		opts.APIKeyEnv = "OPENAI_API_KEY"
	}
	return &Handler{completer: completer, persona: spec, opts: opts}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := log.With().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Logger()
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	w = ww
	SetCORSHeaders(w.Header(), h.opts.AllowedOrigin)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Interface("panic", rec).Msg("chat handler panicked")
			// a response already on the wire cannot be replaced
			if ww.Status() != 0 {
				return
			}
			WriteError(w, http.StatusInternalServerError, types.KindUpstream, types.ErrGeneric, fmt.Sprint(rec))
		}
	}()

	if r.Method == http.MethodOptions {
		logger.Debug().Msg("preflight")
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		logger.Info().Msg("method not allowed")
		WriteError(w, http.StatusMethodNotAllowed, types.KindMethodNotAllowed, types.ErrMethodNotAllowed,
			fmt.Sprintf("Method %s is not allowed. Only POST requests are accepted.", r.Method))
		return
	}

	req, status, errBody := h.validate(w, r, logger)
	if errBody != nil {
		writeJSON(w, status, errBody)
		return
	}

	reply, err := h.forward(r.Context(), req, logger)
	if err != nil {
		status, body := classifyUpstream(err)
		logger.Error().Err(err).Int("status", status).Str("kind", string(body.Kind)).Msg("upstream completion failed")
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, types.ChatResponse{Response: reply})
}

// validate checks configuration and decodes the request body.
func (h *Handler) validate(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (types.ChatRequest, int, *types.ErrorResponse) {
	var req types.ChatRequest
	if h.completer == nil {
		logger.Error().Str("env", h.opts.APIKeyEnv).Msg("upstream API key is missing")
		return req, http.StatusInternalServerError, &types.ErrorResponse{
			Error:   types.ErrConfiguration,
			Details: fmt.Sprintf("The upstream API key is not configured. Please set %s in the environment.", h.opts.APIKeyEnv),
			Kind:    types.KindConfiguration,
		}
	}

	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		logger.Info().Err(err).Msg("invalid request body")
		return req, http.StatusBadRequest, &types.ErrorResponse{Error: types.ErrInvalidBody, Kind: types.KindValidation}
	}
	if strings.TrimSpace(req.Message) == "" {
		logger.Info().Msg("no message provided")
		return req, http.StatusBadRequest, &types.ErrorResponse{Error: types.ErrMessageRequired, Kind: types.KindValidation}
	}
	req.Language = types.ParseLanguage(string(req.Language))
	return req, 0, nil
}

// forward sends the persona and the user's message as a single turn.
func (h *Handler) forward(ctx context.Context, req types.ChatRequest, logger zerolog.Logger) (string, error) {
	if h.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.Timeout)
		defer cancel()
	}
	temperature, maxTokens := h.persona.Options(h.opts.Temperature, h.opts.MaxTokens)
	logger.Debug().
		Str("language", string(req.Language)).
		Int("message_len", len(req.Message)).
		Msg("forwarding to upstream")
	return h.completer.Complete(ctx, upstream.Completion{
		System:      h.persona.Prompt(req.Language),
		Message:     req.Message,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
}
