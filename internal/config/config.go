package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	AppPort     string `env:"APP_PORT" envDefault:"8080"`
	MonitorPort string `env:"MONITOR_PORT" envDefault:"8081"`

	GoogleClientID     string   `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string   `env:"GOOGLE_CLIENT_SECRET"`
	GoogleDiscoveryURL string   `env:"GOOGLE_DISCOVERY_URL" envDefault:"https://accounts.google.com/.well-known/openid-configuration"`
	GoogleRedirectURL  string   `env:"GOOGLE_REDIRECT_URL"`
	OAuthScopes        []string `env:"OAUTH_SCOPES" envDefault:"openid,email,profile" envSeparator:","`

	ProviderTimeout   time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
	DiscoveryCacheTTL time.Duration `env:"DISCOVERY_CACHE_TTL" envDefault:"15m"`

	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	LoginStateTTL time.Duration `env:"LOGIN_STATE_TTL" envDefault:"5m"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"true"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"identities.db"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	SolverFailureRate float64 `env:"SOLVER_FAILURE_RATE" envDefault:"0"`
	ExitOnCrash       bool    `env:"EXIT_ON_CRASH" envDefault:"false"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the process environment and validates the result.
func Load() (Config, error) {
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
	var errs []error

	if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required"))
	}
	if c.GoogleDiscoveryURL == "" {
		errs = append(errs, errors.New("GOOGLE_DISCOVERY_URL must not be empty"))
	}
	if len(c.OAuthScopes) == 0 {
		errs = append(errs, errors.New("OAUTH_SCOPES must list at least one scope"))
	}

	switch c.StoreDriver {
	case StoreMemory:
	case StoreSQLite, StorePostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, fmt.Errorf("DATABASE_DSN is required for store driver %q", c.StoreDriver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT must be positive"))
	}
	if c.SessionTTL <= 0 || c.LoginStateTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL and LOGIN_STATE_TTL must be positive"))
	}
	if c.SolverFailureRate < 0 || c.SolverFailureRate > 1 {
		errs = append(errs, errors.New("SOLVER_FAILURE_RATE must be within [0, 1]"))
	}

	return errors.Join(errs...)
}
