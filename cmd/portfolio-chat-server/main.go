package main

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"portfolio-chat/internal/config"
	"portfolio-chat/internal/logging"
	"portfolio-chat/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run() error {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	s, err := server.NewServer(cfg)
	if err != nil {
		return errors.Wrap(err, "create server")
	}
	defer s.Close()

	// Replies can take as long as the upstream allows.
	var writeTimeout time.Duration
	if cfg.UpstreamTimeout > 0 {
		writeTimeout = cfg.UpstreamTimeout + 15*time.Second
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", srv.Addr)
	}
	log.Info().
		Str("addr", srv.Addr).
		Str("provider", cfg.Provider).
		Bool("configured", cfg.APIKey() != "").
		Msg("portfolio chat server listening")
	return server.Serve(ctx, srv, ln, 30*time.Second)
}
