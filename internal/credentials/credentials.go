// Package credentials resolves the OAuth access token used by the direct
// usage provider. Tokens come from an ordered chain of sources: the OS
// credential store, the Claude Code credentials file, an environment
// override, and finally the static token from config.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/joshuadavidthomas/liment/internal/fetch"
	"github.com/joshuadavidthomas/liment/internal/httpclient"
	"github.com/joshuadavidthomas/liment/internal/oauth"
)

// ErrNotFound is returned by a Source that has no credential to offer.
var ErrNotFound = errors.New("no credentials found")

// Token is an access token. It formats as a redacted marker so it can be
// passed to loggers without leaking.
type Token string

func (t Token) String() string {
	if t == "" {
		return "<empty>"
	}
	return "<redacted>"
}

func (t Token) GoString() string { return t.String() }

// Reveal returns the raw token for use in an Authorization header.
func (t Token) Reveal() string { return string(t) }

// Source loads credentials from one place.
type Source interface {
	Name() string
	Load(ctx context.Context) (oauth.Credentials, error)
}

// Store is what providers consume. Token acquires a token, Refresh
// re-acquires one from the source of truth after the API rejected it.
type Store interface {
	Token(ctx context.Context) (Token, error)
	Refresh(ctx context.Context, rejected Token) (Token, error)
}

// RefreshFunc exchanges a refresh token for new credentials.
type RefreshFunc func(ctx context.Context, refreshToken string) (*oauth.Credentials, error)

// OAuthRefresher returns a RefreshFunc that uses the refresh-token grant.
func OAuthRefresher(client *httpclient.Client, cfg oauth.RefreshConfig) RefreshFunc {
	return func(ctx context.Context, refreshToken string) (*oauth.Credentials, error) {
		return oauth.Refresh(ctx, client, refreshToken, cfg)
	}
}

// Chain tries each source in order and returns the first credential found.
// Tokens rotated through the refresh grant are held in memory, keyed by the
// source token they replaced, so a stale source does not undo the rotation.
type Chain struct {
	sources []Source
	refresh RefreshFunc
	now     func() time.Time
	logger  *log.Logger

	mu      sync.Mutex
	rotated map[string]oauth.Credentials
}

// Option configures a Chain.
type Option func(*Chain)

func WithRefresher(f RefreshFunc) Option { return func(c *Chain) { c.refresh = f } }
func WithClock(now func() time.Time) Option { return func(c *Chain) { c.now = now } }
func WithLogger(l *log.Logger) Option { return func(c *Chain) { c.logger = l } }

func NewChain(sources []Source, opts ...Option) *Chain {
	c := &Chain{
		sources: sources,
		now:     time.Now,
		logger:  log.New(io.Discard),
		rotated: make(map[string]oauth.Credentials),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current access token. An expired token with a refresh
// token is rotated first; if rotation fails the stale token is still
// returned and the API's 401 drives the retry path.
func (c *Chain) Token(ctx context.Context) (Token, error) {
	creds, src, err := c.load(ctx)
	if err != nil {
		return "", err
	}
	effective := c.effective(creds)
	if effective.NeedsRefresh(c.now()) {
		if rotated, ok := c.rotate(ctx, creds, src); ok {
			effective = rotated
		}
	}
	return Token(effective.AccessToken), nil
}

// Refresh re-reads the sources. When they still hold the rejected token,
// the refresh grant is attempted once. Whatever the sources hold afterwards
// is returned; the caller decides whether its single retry succeeds.
func (c *Chain) Refresh(ctx context.Context, rejected Token) (Token, error) {
	creds, src, err := c.load(ctx)
	if err != nil {
		return "", err
	}
	effective := c.effective(creds)
	if effective.AccessToken != rejected.Reveal() {
		c.logger.Debug("credential source has a newer token", "source", src)
		return Token(effective.AccessToken), nil
	}
	if rotated, ok := c.rotate(ctx, creds, src); ok {
		return Token(rotated.AccessToken), nil
	}
	return Token(effective.AccessToken), nil
}

func (c *Chain) load(ctx context.Context) (oauth.Credentials, string, error) {
	var errs []error
	for _, s := range c.sources {
		creds, err := s.Load(ctx)
		if err == nil && creds.AccessToken != "" {
			return creds, s.Name(), nil
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			c.logger.Debug("credential source failed", "source", s.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	if len(errs) == 0 {
		return oauth.Credentials{}, "", fetch.Wrap(fetch.AuthUnavailable, ErrNotFound)
	}
	return oauth.Credentials{}, "", fetch.Wrap(fetch.AuthUnavailable, errors.Join(errs...))
}

func (c *Chain) effective(creds oauth.Credentials) oauth.Credentials {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.rotated[creds.AccessToken]; ok {
		return r
	}
	return creds
}

func (c *Chain) rotate(ctx context.Context, creds oauth.Credentials, src string) (oauth.Credentials, bool) {
	if c.refresh == nil {
		return oauth.Credentials{}, false
	}
	refreshToken := c.effective(creds).RefreshToken
	if refreshToken == "" {
		refreshToken = creds.RefreshToken
	}
	if refreshToken == "" {
		return oauth.Credentials{}, false
	}

	updated, err := c.refresh(ctx, refreshToken)
	if err != nil {
		c.logger.Warn("token refresh failed", "source", src, "err", err)
		return oauth.Credentials{}, false
	}

	c.mu.Lock()
	c.rotated[creds.AccessToken] = *updated
	c.mu.Unlock()
	c.logger.Info("rotated access token", "source", src)
	return *updated, true
}
