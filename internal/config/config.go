package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendLocal    = "local"
	BackendSupabase = "supabase"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	AuthBackend  string        `env:"AUTH_BACKEND" envDefault:"local"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	OIDC OIDCConfig `envPrefix:"OIDC_"`

	Supabase SupabaseConfig `envPrefix:"SUPABASE_"`

	LLM LLMConfig `envPrefix:"LLM_"`

	// Hosts allowed as image sources in the Content-Security-Policy.
	ImageDomains []string `env:"IMAGE_DOMAINS" envSeparator:","`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" envDefault:"10"`

	Telemetry TelemetryConfig
}

// OIDCConfig is optional; login via OIDC is only offered when Issuer is set.
type OIDCConfig struct {
	Name          string `env:"NAME" envDefault:"google"`
	Issuer        string `env:"ISSUER"`
	ClientID      string `env:"CLIENT_ID"`
	ClientSecret  string `env:"CLIENT_SECRET"`
	RedirectURL   string `env:"REDIRECT_URL"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

func (c OIDCConfig) Enabled() bool {
	return c.Issuer != ""
}

type SupabaseConfig struct {
	URL            string `env:"URL"`
	AnonKey        string `env:"ANON_KEY"`
	ServiceRoleKey string `env:"SERVICE_ROLE_KEY"`
	JWTSecret      string `env:"JWT_SECRET"`
}

type LLMConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Model   string `env:"MODEL" envDefault:"llama-3.1-8b-instant"`
}

func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

type TelemetryConfig struct {
	Enabled      bool    `env:"OTEL_ENABLED" envDefault:"false"`
	ServiceName  string  `env:"OTEL_SERVICE_NAME" envDefault:"learner-portal"`
	OTLPEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"http://localhost:4318"`
	SampleRatio  float64 `env:"OTEL_TRACE_SAMPLE_RATIO" envDefault:"0.1"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("APP_PORT cannot be empty")
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}

	switch c.AuthBackend {
	case BackendLocal:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the local auth backend")
		}
		if c.SessionTTL <= 0 {
			return errors.New("SESSION_TTL must be positive")
		}
	case BackendSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			return errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required for the supabase auth backend")
		}
	default:
		return fmt.Errorf("unknown AUTH_BACKEND %q", c.AuthBackend)
	}

	if c.OIDC.Enabled() && (c.OIDC.ClientID == "" || c.OIDC.RedirectURL == "") {
		return errors.New("OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required when OIDC_ISSUER is set")
	}

	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		return errors.New("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return errors.New("OTEL_TRACE_SAMPLE_RATIO must be within [0, 1]")
	}

	return nil
}

// LoadAdmin reads only what the admin commands need.
func LoadAdmin() (SupabaseConfig, error) {
	_ = godotenv.Load()

	var cfg SupabaseConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "SUPABASE_"}); err != nil {
		return SupabaseConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.URL == "" || cfg.ServiceRoleKey == "" {
		return SupabaseConfig{}, errors.New("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required")
	}
	return cfg, nil
}
