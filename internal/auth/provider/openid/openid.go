// Package openid implements provider.Gateway against any OpenID Connect
// provider that publishes a discovery document, Google included.
package openid

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/josephfleury/technical-challenge/internal/auth"
	"github.com/josephfleury/technical-challenge/internal/auth/provider"
	"github.com/josephfleury/technical-challenge/internal/logger"
)

const wellKnownSuffix = "/.well-known/openid-configuration"

type Config struct {
	// DiscoveryURL is the provider's openid-configuration document. The
	// issuer it advertises must equal this URL minus the well-known
	// suffix.
	DiscoveryURL string
	ClientID     string
	ClientSecret string

	// Timeout bounds every outbound call separately.
	Timeout time.Duration

	// CacheTTL keeps discovery results for this long. Zero fetches the
	// document on every call.
	CacheTTL time.Duration

	HTTPClient *http.Client
}

type Gateway struct {
	cfg    Config
	issuer string
	client *http.Client
	now    func() time.Time

	group     singleflight.Group
	mu        sync.Mutex
	cached    *oidc.Provider
	fetchedAt time.Time
}

var _ provider.Gateway = (*Gateway)(nil)

func New(cfg Config) (*Gateway, error) {
	if cfg.DiscoveryURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("openid gateway config missing required fields")
	}
	if !strings.HasSuffix(cfg.DiscoveryURL, wellKnownSuffix) {
		return nil, fmt.Errorf("discovery url must end with %s", wellKnownSuffix)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Gateway{
		cfg:    cfg,
		issuer: strings.TrimSuffix(cfg.DiscoveryURL, wellKnownSuffix),
		client: client,
		now:    time.Now,
	}, nil
}

func (g *Gateway) AuthorizationRedirect(ctx context.Context, req provider.AuthorizationRequest) (string, error) {
	p, err := g.discover(ctx)
	if err != nil {
		return "", err
	}

	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOnline}
	if req.CodeVerifier != "" {
		opts = append(opts, oauth2.S256ChallengeOption(req.CodeVerifier))
	}

	return g.oauthConfig(p, req.CallbackURL, req.Scopes).AuthCodeURL(req.State, opts...), nil
}

func (g *Gateway) ExchangeCode(ctx context.Context, code, redirectURL, codeVerifier string) (*oauth2.Token, error) {
	p, err := g.discover(ctx)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := g.callContext(ctx)
	defer cancel()

	var opts []oauth2.AuthCodeOption
	if codeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(codeVerifier))
	}

	token, err := g.oauthConfig(p, redirectURL, nil).Exchange(callCtx, code, opts...)
	if err != nil {
		logger.Error("token exchange failed", map[string]any{
			"issuer": g.issuer,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("%w: token exchange: %v", auth.ErrProviderExchange, err)
	}
	return token, nil
}

func (g *Gateway) VerifiedIdentity(ctx context.Context, token *oauth2.Token) (*auth.Identity, error) {
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access token", auth.ErrProviderExchange)
	}

	p, err := g.discover(ctx)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := g.callContext(ctx)
	defer cancel()

	info, err := p.UserInfo(callCtx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo: %v", auth.ErrProviderExchange, err)
	}

	if !info.EmailVerified {
		logger.Warn("provider did not verify email", map[string]any{
			"issuer":        g.issuer,
			"email_present": info.Email != "",
		})
		return nil, auth.ErrUnverifiedEmail
	}

	var claims struct {
		GivenName string `json:"given_name"`
		Name      string `json:"name"`
		Picture   string `json:"picture"`
	}
	if err := info.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: userinfo claims: %v", auth.ErrProviderExchange, err)
	}

	if info.Subject == "" || info.Email == "" {
		return nil, fmt.Errorf("%w: userinfo missing sub or email", auth.ErrProviderExchange)
	}

	displayName := claims.GivenName
	if displayName == "" {
		displayName = claims.Name
	}

	return &auth.Identity{
		ID:              info.Subject,
		DisplayName:     displayName,
		Email:           info.Email,
		ProfileImageURL: claims.Picture,
	}, nil
}

func (g *Gateway) oauthConfig(p *oidc.Provider, redirectURL string, scopes []string) *oauth2.Config {
	ep := p.Endpoint()
	ep.AuthStyle = oauth2.AuthStyleInHeader

	return &oauth2.Config{
		ClientID:     g.cfg.ClientID,
		ClientSecret: g.cfg.ClientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     ep,
		Scopes:       scopes,
	}
}

// callContext carries the gateway's HTTP client for both go-oidc and
// oauth2, and bounds the call with the configured timeout.
func (g *Gateway) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(oidc.ClientContext(ctx, g.client), g.cfg.Timeout)
}

// discover returns provider metadata, from cache when it is fresh.
// Concurrent refreshes share one request. That request is detached from
// any single caller's cancellation; each caller stops waiting on its own
// context instead.
func (g *Gateway) discover(ctx context.Context) (*oidc.Provider, error) {
	if p := g.cachedProvider(); p != nil {
		return p, nil
	}

	ch := g.group.DoChan(g.issuer, func() (any, error) {
		callCtx, cancel := g.callContext(context.WithoutCancel(ctx))
		defer cancel()

		logger.Debug("fetching provider metadata", map[string]any{
			"issuer": g.issuer,
		})

		p, err := oidc.NewProvider(callCtx, g.issuer)
		if err != nil {
			logger.Error("provider discovery failed", map[string]any{
				"issuer": g.issuer,
				"error":  err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", auth.ErrProviderDiscovery, err)
		}

		if g.cfg.CacheTTL > 0 {
			g.mu.Lock()
			g.cached = p
			g.fetchedAt = g.now()
			g.mu.Unlock()
		}
		return p, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", auth.ErrProviderDiscovery, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*oidc.Provider), nil
	}
}

func (g *Gateway) cachedProvider() *oidc.Provider {
	if g.cfg.CacheTTL <= 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cached == nil || g.now().Sub(g.fetchedAt) >= g.cfg.CacheTTL {
		return nil
	}
	return g.cached
}
