package server

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"portfolio-chat/internal/proxy"
	"portfolio-chat/internal/store"
	"portfolio-chat/internal/types"
)

// RateLimiter is a fixed-window limiter keyed by client IP. Only POSTs are
// counted so preflights never consume quota.
type RateLimiter struct {
	counter       store.Counter
	limit         int
	window        time.Duration
	allowedOrigin string
}

func NewRateLimiter(counter store.Counter, limit int, window time.Duration, allowedOrigin string) *RateLimiter {
	return &RateLimiter{
		counter:       counter,
		limit:         limit,
		window:        window,
		allowedOrigin: allowedOrigin,
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		key := clientIP(r)
		n, err := rl.counter.Incr(r.Context(), key, rl.window)
		if err != nil {
			// fail open: a broken counter must not take the chat down
			log.Warn().Err(err).Str("client", key).Msg("rate limit counter unavailable")
			next.ServeHTTP(w, r)
			return
		}
		if n > int64(rl.limit) {
			log.Info().Str("client", key).Int64("count", n).Msg("rate limit exceeded")
			proxy.SetCORSHeaders(w.Header(), rl.allowedOrigin)
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			proxy.WriteError(w, http.StatusTooManyRequests, types.KindRateLimit, types.ErrRateLimit, "Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
