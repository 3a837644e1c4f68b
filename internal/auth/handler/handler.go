package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/josephfleury/technical-challenge/internal/auth"
	"github.com/josephfleury/technical-challenge/internal/auth/pending"
	"github.com/josephfleury/technical-challenge/internal/auth/provider"
	"github.com/josephfleury/technical-challenge/internal/auth/resolver"
	"github.com/josephfleury/technical-challenge/internal/logger"
	"github.com/josephfleury/technical-challenge/internal/metrics"
	"github.com/josephfleury/technical-challenge/internal/utils"
)

const (
	LoginPath    = "/login"
	CallbackPath = "/login/callback"
	LogoutPath   = "/logout"

	UnverifiedEmailMessage = "User email not available or not verified by the identity provider."

	stateBytes = 32
)

// Sessions attaches and detaches identities to the caller's session.
// session.Manager implements it.
type Sessions interface {
	Attach(ctx context.Context, w http.ResponseWriter, r *http.Request, identityID string) error
	Detach(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// LoginCounter receives one call per login step outcome.
type LoginCounter interface {
	LoginAttempt(outcome string)
}

type Options struct {
	Scopes []string

	// RedirectURL is the registered callback. When empty it is derived
	// from each request, honouring X-Forwarded-Proto and X-Forwarded-Host.
	RedirectURL string

	StateTTL      time.Duration
	LandingPath   string
	SecureCookies bool
}

type Handler struct {
	gateway  provider.Gateway
	pending  pending.Store
	sessions Sessions
	resolver resolver.Resolver
	counter  LoginCounter
	opts     Options
	now      func() time.Time
}

func NewHandler(
	gateway provider.Gateway,
	pendingStore pending.Store,
	sessions Sessions,
	resolver resolver.Resolver,
	counter LoginCounter,
	opts Options,
) *Handler {
	if opts.LandingPath == "" {
		opts.LandingPath = "/"
	}
	if opts.StateTTL <= 0 {
		opts.StateTTL = 5 * time.Minute
	}
	if len(opts.Scopes) == 0 {
		opts.Scopes = []string{"openid", "email", "profile"}
	}

	return &Handler{
		gateway:  gateway,
		pending:  pendingStore,
		sessions: sessions,
		resolver: resolver,
		counter:  counter,
		opts:     opts,
		now:      time.Now,
	}
}

// RegisterRoutes mounts login, callback and logout. requireAuth gates
// logout and should deny with a 403.
func (h *Handler) RegisterRoutes(r gin.IRouter, requireAuth gin.HandlerFunc) {
	r.GET(LoginPath, h.login)
	r.GET(CallbackPath, h.callback)
	r.GET(LogoutPath, requireAuth, h.logout)
}

func (h *Handler) login(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := utils.RandomString(stateBytes)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to start login", err)
		return
	}
	verifier := oauth2.GenerateVerifier()
	callbackURL := h.callbackURL(c)

	authURL, err := h.gateway.AuthorizationRedirect(ctx, provider.AuthorizationRequest{
		CallbackURL:  callbackURL,
		Scopes:       h.opts.Scopes,
		State:        state,
		CodeVerifier: verifier,
	})
	if err != nil {
		h.count(metrics.LoginFailed)
		h.fail(c, http.StatusBadGateway, "identity provider unavailable", err)
		return
	}

	expiresAt := h.now().Add(h.opts.StateTTL)
	err = h.pending.Save(ctx, pending.Authorization{
		State:        state,
		CodeVerifier: verifier,
		RedirectURL:  callbackURL,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to start login", err)
		return
	}

	setStateCookie(c.Writer, state, h.opts.StateTTL, h.opts.SecureCookies)
	h.count(metrics.LoginStarted)

	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) callback(c *gin.Context) {
	ctx := c.Request.Context()

	// The provider refused or the user cancelled: start over.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"error": errParam,
			"desc":  c.Query("error_description"),
		})
		if state, ok := validateState(c.Request); ok {
			_, _ = h.pending.Consume(ctx, state)
		}
		clearStateCookie(c.Writer, h.opts.SecureCookies)
		h.count(metrics.LoginFailed)
		c.Redirect(http.StatusFound, LoginPath)
		return
	}

	code := c.Query("code")
	if code == "" {
		h.rejectState(c, "missing code", nil)
		return
	}

	state, ok := validateState(c.Request)
	if !ok {
		clearStateCookie(c.Writer, h.opts.SecureCookies)
		h.rejectState(c, "state mismatch", nil)
		return
	}
	clearStateCookie(c.Writer, h.opts.SecureCookies)

	authz, err := h.pending.Consume(ctx, state)
	if errors.Is(err, pending.ErrNotFound) || errors.Is(err, pending.ErrExpired) {
		h.rejectState(c, "unknown or expired state", err)
		return
	}
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to complete login", err)
		return
	}

	token, err := h.gateway.ExchangeCode(ctx, code, authz.RedirectURL, authz.CodeVerifier)
	if err != nil {
		h.count(metrics.LoginFailed)
		h.fail(c, http.StatusBadGateway, "authentication failed", err)
		return
	}

	verified, err := h.gateway.VerifiedIdentity(ctx, token)
	if errors.Is(err, auth.ErrUnverifiedEmail) {
		h.count(metrics.LoginUnverified)
		c.String(http.StatusBadRequest, UnverifiedEmailMessage)
		return
	}
	if err != nil {
		h.count(metrics.LoginFailed)
		h.fail(c, http.StatusBadGateway, "authentication failed", err)
		return
	}

	identityID, err := h.resolver.Resolve(ctx, verified)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to resolve identity", err)
		return
	}

	if err := h.sessions.Attach(ctx, c.Writer, c.Request, identityID); err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to create session", err)
		return
	}

	h.count(metrics.LoginSucceeded)
	logger.Info("login succeeded", map[string]any{
		"identity_id": identityID,
		"ip":          c.ClientIP(),
	})

	c.Redirect(http.StatusFound, h.opts.LandingPath)
}

func (h *Handler) logout(c *gin.Context) {
	p := auth.PrincipalFromContext(c.Request.Context())

	if err := h.sessions.Detach(c.Request.Context(), c.Writer, c.Request); err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to end session", err)
		return
	}

	logger.Info("logout", map[string]any{
		"principal": p.String(),
		"ip":        c.ClientIP(),
	})

	c.Redirect(http.StatusFound, h.opts.LandingPath)
}

// callbackURL is where the provider sends the browser back to. It must
// match between the redirect and the code exchange.
func (h *Handler) callbackURL(c *gin.Context) string {
	if h.opts.RedirectURL != "" {
		return h.opts.RedirectURL
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := firstHeaderValue(c.Request.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = proto
	}

	host := c.Request.Host
	if fwd := firstHeaderValue(c.Request.Header.Get("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}

	return scheme + "://" + host + CallbackPath
}

func firstHeaderValue(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}

func (h *Handler) rejectState(c *gin.Context, reason string, err error) {
	fields := map[string]any{"reason": reason}
	if err != nil {
		fields["error"] = err.Error()
	}
	logger.Warn("login callback rejected", fields)

	h.count(metrics.LoginInvalidState)
	c.String(http.StatusBadRequest, auth.ErrInvalidState.Error())
}

func (h *Handler) fail(c *gin.Context, status int, msg string, err error) {
	logger.Error(msg, map[string]any{
		"path":   c.Request.URL.Path,
		"status": status,
		"error":  err.Error(),
	})
	_ = c.Error(err)
	c.String(status, msg)
}

func (h *Handler) count(outcome string) {
	if h.counter != nil {
		h.counter.LoginAttempt(outcome)
	}
}
