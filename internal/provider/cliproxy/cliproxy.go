// Package cliproxy fetches Claude usage through a CLIProxy management
// server. The proxy holds the OAuth token and substitutes it into the
// relayed request, so liment never sees it.
package cliproxy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/joshuadavidthomas/liment/internal/config"
	"github.com/joshuadavidthomas/liment/internal/credentials"
	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/httpclient"
	"github.com/joshuadavidthomas/liment/internal/models"
	"github.com/joshuadavidthomas/liment/internal/provider"
	"github.com/joshuadavidthomas/liment/internal/provider/claude"
)

const (
	apiCallPath = "/v0/management/api-call"

	// TokenPlaceholder is replaced by the proxy with the account's token.
	TokenPlaceholder = "$TOKEN$"
)

var Meta = provider.Metadata{
	ID:          config.ProviderCliproxy,
	Name:        "Claude via CLIProxy",
	Description: "Claude subscription limits relayed through a CLIProxy management API",
	Homepage:    "https://github.com/router-for-me/CLIProxyAPI",
}

type apiCallRequest struct {
	AuthIndex string            `json:"authIndex"`
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Header    map[string]string `json:"header"`
}

type apiCallResponse struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

type Provider struct {
	endpoint        string
	managementToken credentials.Token
	authIndex       string
	upstream        claude.Endpoints
	client          *httpclient.Client
	logger          *log.Logger
	now             func() time.Time
}

type Option func(*Provider)

func WithHTTPClient(c *httpclient.Client) Option { return func(p *Provider) { p.client = c } }
func WithLogger(l *log.Logger) Option            { return func(p *Provider) { p.logger = l } }
func WithClock(now func() time.Time) Option      { return func(p *Provider) { p.now = now } }

func New(cfg config.CliproxyConfig, opts ...Option) *Provider {
	p := &Provider{
		endpoint:        strings.TrimRight(cfg.BaseURL, "/") + apiCallPath,
		managementToken: credentials.Token(cfg.ManagementToken),
		authIndex:       cfg.AuthIndex,
		upstream:        claude.DefaultEndpoints,
		client:          httpclient.New(),
		logger:          log.New(io.Discard),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Meta() provider.Metadata { return Meta }

func (p *Provider) Tiers() []models.TierInfo { return claude.Tiers() }

func (p *Provider) TrayLabels() [2]string { return [2]string{"5h ..", "7d .."} }

// Fetch relays the usage call, then the profile call. A profile failure only
// drops the tier badge.
func (p *Provider) Fetch(ctx context.Context) fetch.Outcome {
	var usage claude.UsageResponse
	if err := p.relay(ctx, p.upstream.Usage, &usage); err != nil {
		p.logger.Warn("relayed usage fetch failed", "reason", fetch.ReasonOf(err), "err", err)
		return fetch.FromError(err)
	}

	var profile *claude.ProfileResponse
	var pr claude.ProfileResponse
	if err := p.relay(ctx, p.upstream.Profile, &pr); err != nil {
		p.logger.Debug("relayed profile fetch failed, continuing without tier", "err", err)
	} else {
		profile = &pr
	}

	return fetch.Success(claude.Snapshot(usage, profile, p.now()))
}

// relay asks the proxy to GET url with the account's token and decodes the
// upstream body into out.
func (p *Provider) relay(ctx context.Context, url string, out any) error {
	req := apiCallRequest{
		AuthIndex: p.authIndex,
		Method:    http.MethodGet,
		URL:       url,
		Header: map[string]string{
			"Authorization":  "Bearer " + TokenPlaceholder,
			"Anthropic-Beta": claude.BetaTag,
			"Content-Type":   "application/json",
		},
	}

	p.logger.Debug("relayed GET", "url", url, "via", p.endpoint)
	var relayed apiCallResponse
	resp, err := p.client.PostJSONCtx(ctx, p.endpoint, req, &relayed,
		httpclient.WithBearer(p.managementToken.Reveal()),
	)
	if err != nil {
		return fetch.Wrap(fetch.TransportError, err)
	}
	if err := fetch.CheckResponse(resp, "cliproxy"); err != nil {
		return err
	}

	switch {
	case relayed.StatusCode == http.StatusUnauthorized:
		return fetch.Errorf(fetch.AuthExpired, "upstream rejected proxied credentials: HTTP %d", relayed.StatusCode)
	case relayed.StatusCode != http.StatusOK:
		return fetch.Errorf(fetch.ServerError, "upstream request failed: HTTP %d (%s)",
			relayed.StatusCode, httpclient.SummarizeBody([]byte(relayed.Body)))
	}

	if err := json.Unmarshal([]byte(relayed.Body), out); err != nil {
		return fetch.Errorf(fetch.MalformedResponse, "invalid upstream body: %w", err)
	}
	return nil
}

func init() {
	provider.Register(Meta, func(cfg config.Config, deps provider.Deps) (provider.Provider, error) {
		return New(cfg.Providers.Cliproxy,
			WithHTTPClient(deps.HTTP),
			WithLogger(deps.Logger.WithPrefix(Meta.ID)),
			WithClock(deps.Now),
		), nil
	})
}
