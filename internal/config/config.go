// Package config reads the service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	devAccessSecret  = "dev-access-secret-change-me"
	devRefreshSecret = "dev-refresh-secret-change-me"
)

// Config holds every setting the server reads at startup
type Config struct {
	Port               string
	DataDir            string
	DatabaseURL        string
	JWTSecret          string
	RefreshSecret      string
	ScoringConfigPath  string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RateLimitPerMin    int
	SubmitLimitPerHour int
	CORSOrigins        []string
	GinMode            string
	TrendLimit         int
	CacheTTL           time.Duration
	LogLevel           string
	EnableHSTS         bool
}

// Load reads the given .env files (missing files are ignored, real
// environment variables win) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		Port:               p.str("PORT", "8080"),
		DataDir:            p.str("DATA_DIR", "./data"),
		DatabaseURL:        p.str("DATABASE_URL", ""),
		JWTSecret:          p.str("JWT_SECRET", ""),
		RefreshSecret:      p.str("REFRESH_TOKEN_SECRET", ""),
		ScoringConfigPath:  p.str("SCORING_CONFIG", ""),
		RedisAddr:          p.str("REDIS_ADDR", ""),
		RedisPassword:      p.str("REDIS_PASSWORD", ""),
		RedisDB:            p.integer("REDIS_DB", 0),
		RateLimitPerMin:    p.integer("RATE_LIMIT_PER_MIN", 60),
		SubmitLimitPerHour: p.integer("SUBMIT_LIMIT_PER_HOUR", 30),
		CORSOrigins:        p.list("CORS_ORIGINS"),
		GinMode:            p.str("GIN_MODE", "release"),
		TrendLimit:         p.integer("TREND_LIMIT", 10),
		CacheTTL:           p.duration("CACHE_TTL", 5*time.Minute),
		LogLevel:           p.str("LOG_LEVEL", "info"),
		EnableHSTS:         p.boolean("ENABLE_HSTS", false),
	}
	if p.err != nil {
		return nil, p.err
	}

	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = devAccessSecret
	}
	if cfg.RefreshSecret == "" {
		slog.Warn("REFRESH_TOKEN_SECRET not set, using development secret")
		cfg.RefreshSecret = devRefreshSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.JWTSecret == c.RefreshSecret {
		return fmt.Errorf("JWT_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if c.TrendLimit <= 0 || c.TrendLimit > 100 {
		return fmt.Errorf("TREND_LIMIT must be between 1 and 100, got %d", c.TrendLimit)
	}
	if c.RateLimitPerMin < 0 || c.SubmitLimitPerHour < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}

// UsesPostgres reports whether DATABASE_URL selects the postgres store
func (c *Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// parser keeps the first conversion error
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d
}

func (p *parser) boolean(key string, def bool) bool {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b
}

// list splits a comma separated value, dropping empty entries
func (p *parser) list(key string) []string {
	var out []string
	for _, part := range strings.Split(p.getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
