package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joshuadavidthomas/liment/internal/httpclient"
)

func TestCredentials_NeedsRefresh(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{"no expiry", time.Time{}, false},
		{"far future", now.Add(time.Hour), false},
		{"inside buffer", now.Add(2 * time.Minute), true},
		{"expired", now.Add(-time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Credentials{AccessToken: "a", ExpiresAt: tt.expires}
			if got := c.NeedsRefresh(now); got != tt.want {
				t.Errorf("NeedsRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRefresh_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("grant_type") != "refresh_token" {
			t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("refresh_token") != "old-refresh" {
			t.Errorf("refresh_token = %q", r.PostForm.Get("refresh_token"))
		}
		if r.PostForm.Get("client_id") != "cid" {
			t.Errorf("client_id = %q", r.PostForm.Get("client_id"))
		}
		if r.Header.Get("anthropic-beta") != "beta" {
			t.Errorf("anthropic-beta = %q", r.Header.Get("anthropic-beta"))
		}
		_, _ = w.Write([]byte(`{"access_token":"fresh","expires_in":3600}`))
	}))
	defer srv.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	got, err := Refresh(context.Background(), httpclient.New(), "old-refresh", RefreshConfig{
		TokenURL:   srv.URL,
		FormFields: map[string]string{"client_id": "cid"},
		Headers:    []httpclient.RequestOption{httpclient.WithHeader("anthropic-beta", "beta")},
		Now:        func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got.AccessToken != "fresh" {
		t.Errorf("AccessToken = %q", got.AccessToken)
	}
	if got.RefreshToken != "old-refresh" {
		t.Errorf("RefreshToken = %q, want preserved old token", got.RefreshToken)
	}
	if !got.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v", got.ExpiresAt)
	}
}

func TestRefresh_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusBadRequest, `{"error":"invalid_grant"}`},
		{"bad json", http.StatusOK, `nope`},
		{"missing token", http.StatusOK, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := Refresh(context.Background(), httpclient.New(), "r", RefreshConfig{TokenURL: srv.URL})
			if err == nil || got != nil {
				t.Errorf("Refresh() = %v, %v; want error", got, err)
			}
		})
	}
}

func TestRefresh_NoRefreshToken(t *testing.T) {
	_, err := Refresh(context.Background(), httpclient.New(), "", RefreshConfig{TokenURL: "http://unused"})
	if !errors.Is(err, ErrNoRefreshToken) {
		t.Errorf("err = %v, want ErrNoRefreshToken", err)
	}
}
