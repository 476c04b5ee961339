package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// Upstream completion API
	Provider        string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	GeminiAPIKey    string
	GeminiModel     string
	Temperature     float32
	MaxTokens       int
	UpstreamTimeout time.Duration
	// Optional YAML file replacing the embedded persona
	PersonaFile string
	// Rate limiting; RateLimitPerMinute <= 0 disables it
	RateLimitPerMinute int
	RedisURL           string
	// Honour X-Forwarded-For / X-Real-IP when keying clients
	TrustProxyHeaders bool
	// Logging
	LogLevel  string
	LogFormat string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:               getEnvDefault("PORT", "8080"),
		AllowedOrigin:      getEnvDefault("ALLOWED_ORIGIN", "*"),
		Provider:           strings.ToLower(getEnvDefault("UPSTREAM_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnvDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnvDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		Temperature:        float32(getEnvFloatDefault("CHAT_TEMPERATURE", 0.7)),
		MaxTokens:          getEnvIntDefault("CHAT_MAX_TOKENS", 150),
		UpstreamTimeout:    getEnvDurationDefault("UPSTREAM_TIMEOUT", 0),
		PersonaFile:        os.Getenv("PERSONA_FILE"),
		RateLimitPerMinute: getEnvIntDefault("RATE_LIMIT_PER_MINUTE", 20),
		RedisURL:           os.Getenv("REDIS_URL"),
		TrustProxyHeaders:  getEnvBoolDefault("TRUST_PROXY_HEADERS", true),
		LogLevel:           getEnvDefault("LOG_LEVEL", "info"),
		LogFormat:          getEnvDefault("LOG_FORMAT", "json"),
	}
	if cfg.Provider != ProviderGemini {
		cfg.Provider = ProviderOpenAI
	}
	if cfg.APIKey() == "" {
		log.Warn().Str("provider", cfg.Provider).Msg("upstream API key is not set; chat requests will fail with a configuration error")
	}
	return cfg
}

// APIKey returns the credential of the selected upstream provider.
func (c Config) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// APIKeyEnv names the environment variable holding the selected provider's key.
func (c Config) APIKeyEnv() string {
	if c.Provider == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring non-integer env value")
	}
	return def
}

func getEnvFloatDefault(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring non-numeric env value")
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid duration env value")
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}
