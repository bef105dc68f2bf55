package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"

	defaultApiBaseURL        = "http://api.odensebartech.com/api/v1"
	defaultApiTimeoutSeconds = 15
	defaultSessionTTLHours   = 48
	defaultStatsCacheTTL     = 60
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// remote authority
	ApiBaseURL        string `toml:"api_base_url"`
	ApiTimeoutSeconds int    `toml:"api_timeout_seconds"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// session
	SessionBackend  string `toml:"session_backend"`
	SessionTTLHours int    `toml:"session_ttl_hours"`
	CookieSecure    bool   `toml:"cookie_secure"`

	// redis, used by the redis session backend and the rate limiter
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	RateLimitPerMin      int `toml:"rate_limit_per_min"`
	StatsCacheTTLSeconds int `toml:"stats_cache_ttl_seconds"`

	// telemetry
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	HoneycombEnabled      bool   `toml:"honeycomb_enabled"`
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
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
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env, with defaults applied.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}
	return fromToml(&t, env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ApiBaseURL == "" {
		c.ApiBaseURL = defaultApiBaseURL
	}
	c.ApiBaseURL = strings.TrimRight(c.ApiBaseURL, "/")
	if c.ApiTimeoutSeconds <= 0 {
		c.ApiTimeoutSeconds = defaultApiTimeoutSeconds
	}
	if c.SessionBackend == "" {
		c.SessionBackend = SessionBackendCookie
	}
	if c.SessionTTLHours <= 0 {
		c.SessionTTLHours = defaultSessionTTLHours
	}
	if c.StatsCacheTTLSeconds <= 0 {
		c.StatsCacheTTLSeconds = defaultStatsCacheTTL
	}
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	switch c.SessionBackend {
	case SessionBackendCookie:
	case SessionBackendRedis:
		if c.RedisHost == "" || c.RedisPort == "" {
			return fmt.Errorf("redis session backend requires redis_host and redis_port")
		}
	default:
		return fmt.Errorf("unknown session backend: %s", c.SessionBackend)
	}

	if c.RateLimitPerMin > 0 && (c.RedisHost == "" || c.RedisPort == "") {
		return fmt.Errorf("rate limiting requires redis_host and redis_port")
	}

	return nil
}

// RedisNeeded reports whether any configured component talks to redis.
func (c *Config) RedisNeeded() bool {
	return c.SessionBackend == SessionBackendRedis || c.RateLimitPerMin > 0
}

func (c *Config) ApiTimeout() time.Duration {
	return time.Duration(c.ApiTimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) StatsCacheTTL() time.Duration {
	return time.Duration(c.StatsCacheTTLSeconds) * time.Second
}
