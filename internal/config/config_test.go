package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
host = "localhost"
port = 9000
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "portfolio"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
allowed_origins = ["http://localhost:3000"]

[production]
host = "0.0.0.0"
port = 8080
environment = "production"
log_level = "info"
logs_path = "/var/log/portfolio/service"
sentry_enabled = true
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "portfolio"
redis_host = "redis"
redis_port = "6379"
bcrypt_cost = 12
login_rate_limit_allowed_per_min = 5
public_base_url = "https://shoileazeez.dev"
page_cache_ttl_seconds = 60
allowed_origins = ["https://shoileazeez.dev"]
trusted_proxies = ["127.0.0.1", "::1"]
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigToml), 0o600))
	return path
}

func TestLoad_development(t *testing.T) {
	t.Setenv(EnvSessionSecret, "dev-secret")
	t.Setenv(EnvHoneycombEnabled, "")

	cfg, err := Load("dev", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "dev-secret", cfg.SessionSecret)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.TrustedProxies)

	// defaults
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 15, cfg.LoginRateLimitAllowedPerMin)
	assert.Equal(t, 300, cfg.PageCacheTTLSeconds)
	assert.Equal(t, "postgres", cfg.PostgresUser)
	assert.Equal(t, "http://localhost:9000", cfg.PublicBaseURL)
	assert.False(t, cfg.HoneycombEnabled)
}

func TestLoad_production(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "postgres://u:p@db:5432/portfolio")
	t.Setenv(EnvHoneycombEnabled, "true")

	cfg, err := Load("production", writeTestConfig(t))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 5, cfg.LoginRateLimitAllowedPerMin)
	assert.Equal(t, 60, cfg.PageCacheTTLSeconds)
	assert.Equal(t, "https://shoileazeez.dev", cfg.PublicBaseURL)
	assert.Equal(t, "postgres://u:p@db:5432/portfolio", cfg.DatabaseURL)
	assert.Equal(t, []string{"127.0.0.1", "::1"}, cfg.TrustedProxies)
	assert.True(t, cfg.HoneycombEnabled)
}

func TestLoad_errors(t *testing.T) {
	_, err := Load("staging", writeTestConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown env")

	_, err = Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "only-dev.toml")
	require.NoError(t, os.WriteFile(path, []byte("[development]\nport = 1\n"), 0o600))
	_, err = Load("prod", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not present")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvMailjetAPIKey:    "key",
		EnvMailjetSecretKey: "secret",
		EnvMailjetFromEmail: "from@example.com",
		EnvMailjetToEmail:   "to@example.com",
		EnvRedisPassword:    "redis-pass",
		EnvPostgresPassword: "pg-pass",
		EnvSentryDSN:        "https://dsn@sentry.local/1",
	}
	cfg := &Config{}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "key", cfg.MailjetAPIKey)
	assert.Equal(t, "secret", cfg.MailjetSecretKey)
	assert.Equal(t, "from@example.com", cfg.MailFrom)
	assert.Equal(t, "to@example.com", cfg.MailTo)
	assert.Equal(t, "redis-pass", cfg.RedisPassword)
	assert.Equal(t, "pg-pass", cfg.PostgresPassword)
	assert.Equal(t, "https://dsn@sentry.local/1", cfg.SentryDSN)
	assert.Empty(t, cfg.SessionSecret)
}
