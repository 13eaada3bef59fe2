package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`

	// Generation / speech backends
	GeminiAPIKey      string `env:"GEMINI_API_KEY"`
	GoogleAPIKey      string `env:"GOOGLE_API_KEY"`
	GenerationBackend string `env:"GENERATION_BACKEND" envDefault:"gemini"` // "gemini" or "lorem"
	DefaultModel      string `env:"DEFAULT_MODEL" envDefault:"gemini-2.5-flash"`
	ProModel          string `env:"PRO_MODEL" envDefault:"gemini-2.5-pro"`
	TTSModel          string `env:"TTS_MODEL" envDefault:"gemini-2.5-flash-preview-tts"`
	TTSVoice          string `env:"TTS_VOICE"` // empty = provider default voice

	// MediaStrict rejects attachments that are not base64 data URIs instead of dropping them
	MediaStrict bool `env:"MEDIA_STRICT" envDefault:"false"`

	// Persistence
	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"` // "memory", "postgres" or "sqlite"
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"synapse.db"`

	// Auth (JWKS-verified bearer tokens). Empty JWKS URL in dev injects DevUserID.
	AuthJWKSURL  string `env:"AUTH_JWKS_URL"`
	AuthIssuer   string `env:"AUTH_ISSUER"`
	AuthAudience string `env:"AUTH_AUDIENCE"`
	DevUserID    string `env:"DEV_USER_ID" envDefault:"dev-user"`

	// Logging
	LogDir      string `env:"LOG_DIR"`
	LogMaxFiles int    `env:"LOG_MAX_FILES" envDefault:"10"`

	// Debug flags - default to true outside production
	Debug string `env:"DEBUG"`
}

// Load parses the environment into a Config.
// Call godotenv.Load() first if a .env file should be honored.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "memory", "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.GenerationBackend {
	case "gemini", "lorem":
	default:
		return fmt.Errorf("unsupported GENERATION_BACKEND %q", c.GenerationBackend)
	}

	if c.Environment == "prod" && c.AuthJWKSURL == "" {
		return fmt.Errorf("AUTH_JWKS_URL is required in prod")
	}
	return nil
}

// APIKey returns the Gemini API key, falling back to GOOGLE_API_KEY.
func (c *Config) APIKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.GoogleAPIKey
}

// DebugEnabled reports whether debug features are on.
func (c *Config) DebugEnabled() bool {
	if c.Debug != "" {
		return c.Debug == "true"
	}
	return c.Environment != "prod"
}

// AllowedOrigins splits CORSOrigins on commas.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
