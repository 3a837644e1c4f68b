package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/josephfleury/technical-challenge/internal/auth/handler"
	"github.com/josephfleury/technical-challenge/internal/auth/pending"
	"github.com/josephfleury/technical-challenge/internal/auth/provider"
	"github.com/josephfleury/technical-challenge/internal/auth/resolver"
	"github.com/josephfleury/technical-challenge/internal/compute"
	"github.com/josephfleury/technical-challenge/internal/config"
	"github.com/josephfleury/technical-challenge/internal/identity"
	"github.com/josephfleury/technical-challenge/internal/metrics"
	"github.com/josephfleury/technical-challenge/internal/middleware"
	"github.com/josephfleury/technical-challenge/internal/outcome"
	"github.com/josephfleury/technical-challenge/internal/session"
	"github.com/josephfleury/technical-challenge/internal/solver"
)

const healthcheckTimeout = 2 * time.Second

// Dependencies are everything the router needs that has state or talks
// to the outside world.
type Dependencies struct {
	Gateway    provider.Gateway
	Identities identity.Store
	Sessions   session.Store
	Pending    pending.Store
	Solver     solver.Solver
	Metrics    *metrics.Metrics
	Ledger     *outcome.Ledger
	Checks     map[string]func(context.Context) error
}

func NewRouter(cfg config.Config, deps Dependencies) *gin.Engine {
	sessions := session.NewManager(deps.Sessions, cfg.SessionTTL, session.CookieOptions{
		Secure: cfg.CookieSecure,
	})
	authMiddleware := middleware.NewAuthMiddleware(sessions)

	authHandler := handler.NewHandler(
		deps.Gateway,
		deps.Pending,
		sessions,
		resolver.NewStoreResolver(deps.Identities, deps.Metrics),
		deps.Metrics,
		handler.Options{
			Scopes:        cfg.OAuthScopes,
			RedirectURL:   cfg.GoogleRedirectURL,
			StateTTL:      cfg.LoginStateTTL,
			SecureCookies: cfg.CookieSecure,
		},
	)
	dispatcher := compute.NewDispatcher(deps.Solver, deps.Metrics)

	router := gin.New()
	router.Use(
		middleware.RequestLogger(),
		outcome.Track(deps.Ledger, deps.Metrics),
	)

	// ----------------------------
	// Login flow
	// ----------------------------

	authHandler.RegisterRoutes(router, middleware.GinRequireAuth(authMiddleware, middleware.Forbidden()))

	// ----------------------------
	// Compute
	// ----------------------------

	router.GET("/", dispatcher.Public)
	router.GET("/v1/", dispatcher.Public)

	loginGate := middleware.GinRequireAuth(authMiddleware, dispatcher.LoginPrompt())
	router.POST("/", loginGate, dispatcher.Protected)
	router.POST("/v2/", loginGate, dispatcher.Protected)

	router.GET("/healthcheck", healthcheck(deps.Checks))

	return router
}

// NewMonitorRouter serves Prometheus metrics on the monitoring port.
func NewMonitorRouter(m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.GET("/metrics", gin.WrapH(m.Handler()))
	return router
}

func healthcheck(checks map[string]func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthcheckTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "unavailable"
		}
		c.JSON(status, gin.H{
			"status": overall,
			"checks": results,
		})
	}
}
