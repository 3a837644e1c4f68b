package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "8081", cfg.MonitorPort)
	assert.Equal(t, "https://accounts.google.com/.well-known/openid-configuration", cfg.GoogleDiscoveryURL)
	assert.Equal(t, []string{"openid", "email", "profile"}, cfg.OAuthScopes)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.LoginStateTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("OAUTH_SCOPES", "openid,email")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("SOLVER_FAILURE_RATE", "0.25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"openid", "email"}, cfg.OAuthScopes)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 3*time.Second, cfg.ProviderTimeout)
	assert.InDelta(t, 0.25, cfg.SolverFailureRate, 1e-9)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			GoogleClientID:     "id",
			GoogleClientSecret: "secret",
			GoogleDiscoveryURL: "https://idp.example.com/.well-known/openid-configuration",
			OAuthScopes:        []string{"openid"},
			StoreDriver:        StoreMemory,
			ProviderTimeout:    time.Second,
			SessionTTL:         time.Hour,
			LoginStateTTL:      time.Minute,
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:        "missing client credentials",
			mutate:      func(c *Config) { c.GoogleClientSecret = "" },
			errContains: "GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET",
		},
		{
			name:        "unknown store driver",
			mutate:      func(c *Config) { c.StoreDriver = "mongo" },
			errContains: "unknown STORE_DRIVER",
		},
		{
			name: "sql store without dsn",
			mutate: func(c *Config) {
				c.StoreDriver = StorePostgres
				c.DatabaseDSN = ""
			},
			errContains: "DATABASE_DSN is required",
		},
		{
			name:        "failure rate out of range",
			mutate:      func(c *Config) { c.SolverFailureRate = 1.5 },
			errContains: "SOLVER_FAILURE_RATE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
