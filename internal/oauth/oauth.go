// Package oauth provides OAuth credential types, expiry checks, and the
// refresh-token grant.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joshuadavidthomas/liment/internal/httpclient"
)

// RefreshBuffer is the duration before token expiry at which the token is
// considered stale.
const RefreshBuffer = 5 * time.Minute

// ErrNoRefreshToken is returned by Refresh when there is nothing to exchange.
var ErrNoRefreshToken = errors.New("no refresh token")

// Credentials is the normalized OAuth credential set.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
}

// NeedsRefresh reports whether the access token expires within RefreshBuffer
// of now. A zero ExpiresAt means the token does not expire.
func (c Credentials) NeedsRefresh(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return now.Add(RefreshBuffer).After(c.ExpiresAt)
}

// TokenResponse represents the response from an OAuth token refresh endpoint.
type TokenResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token,omitempty"`
	ExpiresIn    float64 `json:"expires_in,omitempty"`
}

// RefreshConfig contains the endpoint-specific parameters for token refresh.
type RefreshConfig struct {
	TokenURL   string
	FormFields map[string]string
	Headers    []httpclient.RequestOption
	Now        func() time.Time
}

// Refresh exchanges a refresh token for a new access token. The result is
// returned to the caller and never written back to the source it came from.
func Refresh(ctx context.Context, client *httpclient.Client, refreshToken string, cfg RefreshConfig) (*Credentials, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	form := map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}
	for k, v := range cfg.FormFields {
		form[k] = v
	}

	var tokenResp TokenResponse
	resp, err := client.PostFormCtx(ctx, cfg.TokenURL, form, &tokenResp, cfg.Headers...)
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("refreshing token: HTTP %d (%s)", resp.StatusCode, httpclient.SummarizeBody(resp.Body))
	}
	if resp.JSONErr != nil {
		return nil, fmt.Errorf("refreshing token: %w", resp.JSONErr)
	}
	if tokenResp.AccessToken == "" {
		return nil, errors.New("refreshing token: response has no access_token")
	}

	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	updated := &Credentials{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
	}
	if tokenResp.ExpiresIn > 0 {
		updated.ExpiresAt = now().UTC().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}

	// Preserve the old refresh token if the server didn't issue a new one
	if updated.RefreshToken == "" {
		updated.RefreshToken = refreshToken
	}

	return updated, nil
}
