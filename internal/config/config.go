package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	EnvSessionSecret    = "PORTFOLIO_SESSION_SECRET"
	EnvDatabaseURL      = "DATABASE_URL"
	EnvPostgresPassword = "PORTFOLIO_POSTGRES_PASS"
	EnvRedisPassword    = "PORTFOLIO_REDIS_PASS"
	EnvMailjetAPIKey    = "MAILJET_API_KEY"
	EnvMailjetSecretKey = "MAILJET_SECRET_KEY"
	EnvMailjetFromEmail = "MAILJET_FROM_EMAIL"
	EnvMailjetToEmail   = "MAILJET_TO_EMAIL"
	EnvSentryDSN        = "SENTRY_DSN"
	EnvHoneycombEnabled = "HONEYCOMB_ENABLED"
)

type Config struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Environment string `toml:"environment"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// auth
	BcryptCost                  int      `toml:"bcrypt_cost"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
	AllowedOrigins              []string `toml:"allowed_origins"`
	// forwarding headers are only believed from these addresses / CIDRs
	TrustedProxies []string `toml:"trusted_proxies"`

	// page data fetchers hit the public API through this base URL
	PublicBaseURL       string `toml:"public_base_url"`
	PageCacheTTLSeconds int    `toml:"page_cache_ttl_seconds"`

	// size of the in-memory list response cache, in megabytes
	ListCacheSizeMB int `toml:"list_cache_size_mb"`

	// secrets, read from the environment only
	SessionSecret    string `toml:"-"`
	DatabaseURL      string `toml:"-"`
	PostgresPassword string `toml:"-"`
	RedisPassword    string `toml:"-"`
	MailjetAPIKey    string `toml:"-"`
	MailjetSecretKey string `toml:"-"`
	MailFrom         string `toml:"-"`
	MailTo           string `toml:"-"`
	SentryDSN        string `toml:"-"`
	HoneycombEnabled bool   `toml:"-"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("env [%s] not present in config", env)
	}
	return cfg, nil
}

// Load reads the TOML file, picks the section for env and fills in
// secrets and defaults.
func Load(env, path string) (*Config, error) {
	var tomlCfg Toml
	if _, err := toml.DecodeFile(path, &tomlCfg); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := tomlCfg.Get(env)
	if err != nil {
		return nil, err
	}

	if cfg.Environment == "" {
		cfg.Environment = normalizeEnv(env)
	}
	cfg.ApplyEnv(os.Getenv)
	cfg.ApplyDefaults()

	return cfg, nil
}

func (c *Config) ApplyEnv(getenv func(string) string) {
	c.SessionSecret = getenv(EnvSessionSecret)
	c.DatabaseURL = getenv(EnvDatabaseURL)
	c.PostgresPassword = getenv(EnvPostgresPassword)
	c.RedisPassword = getenv(EnvRedisPassword)
	c.MailjetAPIKey = getenv(EnvMailjetAPIKey)
	c.MailjetSecretKey = getenv(EnvMailjetSecretKey)
	c.MailFrom = getenv(EnvMailjetFromEmail)
	c.MailTo = getenv(EnvMailjetToEmail)
	c.SentryDSN = getenv(EnvSentryDSN)
	c.HoneycombEnabled = getenv(EnvHoneycombEnabled) == "true"
}

func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 10
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 15
	}
	if c.PageCacheTTLSeconds == 0 {
		c.PageCacheTTLSeconds = 300
	}
	if c.ListCacheSizeMB == 0 {
		c.ListCacheSizeMB = 10
	}
	if c.PublicBaseURL == "" {
		c.PublicBaseURL = fmt.Sprintf("http://%s:%d", c.Host, c.Port)
	}
}

func (c *Config) IsProduction() bool {
	return normalizeEnv(c.Environment) == "production"
}

func normalizeEnv(env string) string {
	switch strings.ToLower(env) {
	case "prod", "production":
		return "production"
	default:
		return "development"
	}
}
