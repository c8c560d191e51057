// Package claude fetches usage from the Anthropic OAuth usage API with the
// token Claude Code stores locally.
package claude

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/credentials"
	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/httpclient"
	"github.com/joshuadavidthomas/liment/internal/models"
	"github.com/joshuadavidthomas/liment/internal/oauth"
	"github.com/joshuadavidthomas/liment/internal/provider"
)

const (
	UsageURL   = "https://api.anthropic.com/api/oauth/usage"
	ProfileURL = "https://api.anthropic.com/api/oauth/profile"
	TokenURL   = "https://api.anthropic.com/oauth/token"

	BetaHeader = "anthropic-beta"
	BetaTag    = "oauth-2025-04-20"
)

var Meta = provider.Metadata{
	ID:          config.ProviderClaudeCode,
	Name:        "Claude Code",
	Description: "Claude subscription limits via the Claude Code OAuth token",
	Homepage:    "https://claude.ai/settings/usage",
}

// Endpoints are the API URLs a Provider calls. Tests point them at an
// httptest server.
type Endpoints struct {
	Usage   string
	Profile string
}

var DefaultEndpoints = Endpoints{Usage: UsageURL, Profile: ProfileURL}

// Provider is the direct OAuth usage provider. The access token is acquired
// once and cached; a 401 triggers exactly one re-acquisition and one retry.
type Provider struct {
	store     credentials.Store
	client    *httpclient.Client
	endpoints Endpoints
	logger    *log.Logger
	now       func() time.Time

	mu     sync.Mutex
	token  credentials.Token
	flight singleflight.Group
}

type Option func(*Provider)

func WithHTTPClient(c *httpclient.Client) Option { return func(p *Provider) { p.client = c } }
func WithEndpoints(e Endpoints) Option           { return func(p *Provider) { p.endpoints = e } }
func WithLogger(l *log.Logger) Option            { return func(p *Provider) { p.logger = l } }
func WithClock(now func() time.Time) Option      { return func(p *Provider) { p.now = now } }

func New(store credentials.Store, opts ...Option) *Provider {
	p := &Provider{
		store:     store,
		client:    httpclient.New(),
		endpoints: DefaultEndpoints,
		logger:    log.New(io.Discard),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RefreshConfig is the refresh-token grant used when a stored token has
// expired.
func RefreshConfig() oauth.RefreshConfig {
	return oauth.RefreshConfig{
		TokenURL: TokenURL,
		Headers:  []httpclient.RequestOption{httpclient.WithHeader(BetaHeader, BetaTag)},
	}
}

func (p *Provider) Meta() provider.Metadata { return Meta }

func (p *Provider) Tiers() []models.TierInfo { return Tiers() }

func (p *Provider) TrayLabels() [2]string { return [2]string{"5h ..", "7d .."} }

// Fetch loads usage, then the profile. A profile failure only drops the
// tier badge.
func (p *Provider) Fetch(ctx context.Context) fetch.Outcome {
	var usage UsageResponse
	if err := p.get(ctx, p.endpoints.Usage, &usage); err != nil {
		p.logger.Warn("usage fetch failed", "reason", fetch.ReasonOf(err), "err", err)
		return fetch.FromError(err)
	}

	var profile *ProfileResponse
	var pr ProfileResponse
	if err := p.get(ctx, p.endpoints.Profile, &pr); err != nil {
		p.logger.Debug("profile fetch failed, continuing without tier", "err", err)
	} else {
		profile = &pr
	}

	return fetch.Success(Snapshot(usage, profile, p.now()))
}

func (p *Provider) get(ctx context.Context, url string, out any) error {
	token, err := p.currentToken(ctx)
	if err != nil {
		return err
	}

	resp, err := p.do(ctx, url, token, out)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		p.logger.Warn("token rejected, re-acquiring", "url", url)
		token, err = p.reacquire(ctx, token)
		if err != nil {
			return fetch.Wrap(fetch.AuthExpired, err)
		}
		resp, err = p.do(ctx, url, token, out)
		if err != nil {
			return err
		}
	}
	return fetch.CheckResponse(resp, "usage API")
}

func (p *Provider) do(ctx context.Context, url string, token credentials.Token, out any) (*httpclient.Response, error) {
	p.logger.Debug("GET", "url", url)
	resp, err := p.client.GetJSONCtx(ctx, url, out,
		httpclient.WithBearer(token.Reveal()),
		httpclient.WithHeader(BetaHeader, BetaTag),
	)
	if err != nil {
		return nil, fetch.Wrap(fetch.TransportError, err)
	}
	return resp, nil
}

func (p *Provider) currentToken(ctx context.Context) (credentials.Token, error) {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()
	if token != "" {
		return token, nil
	}

	v, err, _ := p.flight.Do("acquire", func() (any, error) {
		t, err := p.store.Token(ctx)
		if err != nil {
			return credentials.Token(""), err
		}
		p.mu.Lock()
		if p.token == "" {
			p.token = t
		}
		t = p.token
		p.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return "", fetch.Wrap(fetch.AuthUnavailable, err)
	}
	return v.(credentials.Token), nil
}

// reacquire replaces rejected with a token from the credential store.
// Concurrent callers holding the same rejected token share one store call.
func (p *Provider) reacquire(ctx context.Context, rejected credentials.Token) (credentials.Token, error) {
	v, err, _ := p.flight.Do("refresh:"+rejected.Reveal(), func() (any, error) {
		p.mu.Lock()
		if p.token != "" && p.token != rejected {
			t := p.token
			p.mu.Unlock()
			return t, nil
		}
		p.mu.Unlock()

		t, err := p.store.Refresh(ctx, rejected)
		if err != nil {
			return credentials.Token(""), err
		}

		p.mu.Lock()
		p.token = t
		p.mu.Unlock()
		if t == rejected {
			p.logger.Debug("credential store returned the same token")
		} else {
			p.logger.Info("token re-acquired")
		}
		return t, nil
	})
	if err != nil {
		return "", err
	}
	return v.(credentials.Token), nil
}

// NewStore builds the credential chain the provider reads its token from.
func NewStore(cfg config.Config, deps provider.Deps) *credentials.Chain {
	deps = deps.WithDefaults()
	return credentials.NewChain(
		credentials.DefaultSources(cfg.Providers.ClaudeCode.Token),
		credentials.WithRefresher(credentials.OAuthRefresher(deps.HTTP, RefreshConfig())),
		credentials.WithClock(deps.Now),
		credentials.WithLogger(deps.Logger),
	)
}

func init() {
	provider.Register(Meta, func(cfg config.Config, deps provider.Deps) (provider.Provider, error) {
		return New(NewStore(cfg, deps),
			WithHTTPClient(deps.HTTP),
			WithLogger(deps.Logger.WithPrefix(Meta.ID)),
			WithClock(deps.Now),
		), nil
	})
}
