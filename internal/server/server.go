package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"portfolio-chat/internal/config"
	"portfolio-chat/internal/persona"
	"portfolio-chat/internal/proxy"
	"portfolio-chat/internal/store"
	"portfolio-chat/internal/upstream"
)

// Chat endpoint paths. The second one keeps widgets built against the
// serverless deployment working unchanged.
const (
	ChatPath           = "/api/chat"
	ServerlessChatPath = "/.netlify/functions/chat"
)

type Server struct {
	router  *chi.Mux
	cfg     config.Config
	chat    *proxy.Handler
	limiter *RateLimiter
	redis   *store.RedisStore
}

func NewServer(cfg config.Config) (*Server, error) {
	spec, err := persona.Load(cfg.PersonaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load persona: %w", err)
	}

	var counter store.Counter = store.NewMemoryStore()
	var rs *store.RedisStore
	if cfg.RateLimitPerMinute > 0 && cfg.RedisURL != "" {
		rs, err = store.NewRedisStore(context.Background(), cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect rate limit store: %w", err)
		}
		log.Info().Msg("rate limiting backed by redis")
		counter = rs
	} else if cfg.RateLimitPerMinute > 0 {
		log.Warn().Msg("REDIS_URL not provided, rate limits are per process")
	}

	s := New(cfg, upstream.New(cfg), spec, counter)
	s.redis = rs
	return s, nil
}

// New assembles a server from already built collaborators. A nil completer
// makes every chat request fail with a configuration error.
func New(cfg config.Config, completer upstream.Completer, spec *persona.Spec, counter store.Counter) *Server {
	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		chat: proxy.New(completer, spec, proxy.Options{
			AllowedOrigin: cfg.AllowedOrigin,
			Temperature:   cfg.Temperature,
			MaxTokens:     cfg.MaxTokens,
			Timeout:       cfg.UpstreamTimeout,
			APIKeyEnv:     cfg.APIKeyEnv(),
		}),
	}
	if cfg.RateLimitPerMinute > 0 && counter != nil {
		s.limiter = NewRateLimiter(counter, cfg.RateLimitPerMinute, time.Minute, cfg.AllowedOrigin)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(chimiddleware.RequestID)
	if s.cfg.TrustProxyHeaders {
		s.router.Use(chimiddleware.RealIP)
	}
	s.router.Use(requestLogger)
	s.router.Use(chimiddleware.Recoverer)

	s.router.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{s.cfg.AllowedOrigin},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/api/health", s.handleHealth)
	})

	// The chat handler owns method dispatch and its own CORS headers.
	var chat http.Handler = s.chat
	if s.limiter != nil {
		chat = s.limiter.Middleware(chat)
	}
	s.router.Handle(ChatPath, chat)
	s.router.Handle(ServerlessChatPath, chat)
}

func (s *Server) Router() http.Handler { return s.router }

// Close releases the rate limit store connection, if any.
func (s *Server) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":     "ok",
		"provider":   s.cfg.Provider,
		"configured": s.cfg.APIKey() != "",
	})
}
