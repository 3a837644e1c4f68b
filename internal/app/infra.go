package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/josephfleury/technical-challenge/internal/auth/pending"
	"github.com/josephfleury/technical-challenge/internal/config"
	"github.com/josephfleury/technical-challenge/internal/db"
	"github.com/josephfleury/technical-challenge/internal/identity"
	"github.com/josephfleury/technical-challenge/internal/logger"
	"github.com/josephfleury/technical-challenge/internal/redis"
	"github.com/josephfleury/technical-challenge/internal/session"
)

// Infra holds the stateful backends. Redis is nil when REDIS_ADDR is
// unset, in which case sessions and pending logins live in memory.
type Infra struct {
	Identities identity.Store
	Sessions   session.Store
	Pending    pending.Store
	Redis      *redis.Client

	closers []func() error
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	identities, closeDB, err := openIdentityStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	infra.Identities = identities
	if closeDB != nil {
		infra.closers = append(infra.closers, closeDB)
	}

	logger.Info("identity store ready", map[string]any{
		"driver": cfg.StoreDriver,
	})

	if cfg.RedisAddr == "" {
		infra.Sessions = session.NewMemoryStore()
		infra.Pending = pending.NewMemoryStore()
		logger.Warn("REDIS_ADDR not set, sessions are kept in memory", nil)
		return infra, nil
	}

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	infra.Redis = redisClient
	infra.Sessions = session.NewRedisStore(redisClient.Client)
	infra.Pending = pending.NewRedisStore(redisClient.Client)
	infra.closers = append(infra.closers, redisClient.Close)

	logger.Info("redis ready", map[string]any{
		"addr": cfg.RedisAddr,
	})

	return infra, nil
}

func openIdentityStore(ctx context.Context, cfg config.Config) (identity.Store, func() error, error) {
	var dialect db.Dialect

	switch cfg.StoreDriver {
	case config.StoreMemory:
		return identity.NewMemoryStore(), nil, nil
	case config.StoreSQLite:
		dialect = db.SQLite
	case config.StorePostgres:
		dialect = db.Postgres
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	database, err := db.Open(ctx, dialect, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	store, err := identity.NewSQLStore(database)
	if err != nil {
		_ = database.Close()
		return nil, nil, err
	}

	return store, database.Close, nil
}

// Checks are the readiness probes served on /healthcheck.
func (i *Infra) Checks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"identity_store": i.Identities.Ping,
	}
	if i.Redis != nil {
		checks["redis"] = i.Redis.Health
	}
	return checks
}

func (i *Infra) Close() error {
	var errs []error
	for j := len(i.closers) - 1; j >= 0; j-- {
		errs = append(errs, i.closers[j]())
	}
	return errors.Join(errs...)
}
