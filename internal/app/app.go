package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/josephfleury/technical-challenge/internal/auth/provider/openid"
	"github.com/josephfleury/technical-challenge/internal/config"
	"github.com/josephfleury/technical-challenge/internal/metrics"
	"github.com/josephfleury/technical-challenge/internal/outcome"
	"github.com/josephfleury/technical-challenge/internal/solver"
)

type App struct {
	httpServer    *http.Server
	monitorServer *http.Server
	ledger        *outcome.Ledger
	cleanup       func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gateway, err := openid.New(openid.Config{
		DiscoveryURL: cfg.GoogleDiscoveryURL,
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Timeout:      cfg.ProviderTimeout,
		CacheTTL:     cfg.DiscoveryCacheTTL,
	})
	if err != nil {
		_ = infra.Close()
		return nil, fmt.Errorf("identity provider: %w", err)
	}

	var s solver.Solver = solver.Paint{}
	if cfg.SolverFailureRate > 0 {
		s = solver.NewFlaky(s, cfg.SolverFailureRate)
	}

	m := metrics.New()
	ledger := outcome.NewLedger()

	router := NewRouter(cfg, Dependencies{
		Gateway:    gateway,
		Identities: infra.Identities,
		Sessions:   infra.Sessions,
		Pending:    infra.Pending,
		Solver:     s,
		Metrics:    m,
		Ledger:     ledger,
		Checks:     infra.Checks(),
	})

	return &App{
		httpServer: &http.Server{
			Addr:    ":" + cfg.AppPort,
			Handler: router,
		},
		monitorServer: &http.Server{
			Addr:    ":" + cfg.MonitorPort,
			Handler: NewMonitorRouter(m),
		},
		ledger:  ledger,
		cleanup: infra.Close,
	}, nil
}

// Run serves the application and monitoring ports until both are shut
// down. If either fails the other is closed too.
func (a *App) Run() error {
	var g errgroup.Group
	servers := []*http.Server{a.httpServer, a.monitorServer}

	for _, srv := range servers {
		g.Go(func() error {
			err := srv.ListenAndServe()
			if err == nil || errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			for _, other := range servers {
				_ = other.Close()
			}
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		})
	}

	return g.Wait()
}

// Outcomes is the per-request ledger the exit status is derived from.
func (a *App) Outcomes() *outcome.Ledger {
	return a.ledger
}

func (a *App) Shutdown(ctx context.Context) error {
	err := errors.Join(
		a.httpServer.Shutdown(ctx),
		a.monitorServer.Shutdown(ctx),
	)
	if a.cleanup != nil {
		err = errors.Join(err, a.cleanup())
	}
	return err
}
