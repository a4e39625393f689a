package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/learners")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, BackendLocal, cfg.AuthBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.False(t, cfg.LLM.Enabled())
	assert.False(t, cfg.OIDC.Enabled())
	assert.Equal(t, "google", cfg.OIDC.Name)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/learners")
	t.Setenv("AUTH_BACKEND", "supabase")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("IMAGE_DOMAINS", "images.example.com,cdn.example.com")
	t.Setenv("LLM_API_KEY", "gsk_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendSupabase, cfg.AuthBackend)
	assert.Equal(t, "https://abc.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"images.example.com", "cdn.example.com"}, cfg.ImageDomains)
	assert.True(t, cfg.LLM.Enabled())
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/learners")
	t.Setenv("SESSION_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			AppPort:       "8080",
			AuthBackend:   BackendLocal,
			SessionTTL:    time.Hour,
			DatabaseDSN:   "postgres://localhost/learners",
			RedisAddr:     "localhost:6379",
			AuthRateLimit: 5,
			AuthRateBurst: 10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid local", mutate: func(*Config) {}},
		{name: "missing dsn", mutate: func(c *Config) { c.DatabaseDSN = "" }, wantErr: "DATABASE_DSN"},
		{name: "unknown backend", mutate: func(c *Config) { c.AuthBackend = "ldap" }, wantErr: "unknown AUTH_BACKEND"},
		{name: "supabase without url", mutate: func(c *Config) { c.AuthBackend = BackendSupabase }, wantErr: "SUPABASE_URL"},
		{name: "oidc without client", mutate: func(c *Config) { c.OIDC.Issuer = "https://accounts.google.com" }, wantErr: "OIDC_CLIENT_ID"},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: "SESSION_TTL"},
		{name: "bad ratio", mutate: func(c *Config) { c.Telemetry.SampleRatio = 2 }, wantErr: "OTEL_TRACE_SAMPLE_RATIO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadAdminRequiresServiceKey(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")

	_, err := LoadAdmin()
	require.Error(t, err)

	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service")
	cfg, err := LoadAdmin()
	require.NoError(t, err)
	assert.Equal(t, "service", cfg.ServiceRoleKey)
}
