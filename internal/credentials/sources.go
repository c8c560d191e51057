package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joshuadavidthomas/liment/internal/keychain"
	"github.com/joshuadavidthomas/liment/internal/oauth"
)

// ClaudeKeychainService is the generic-password service Claude Code writes.
const ClaudeKeychainService = "Claude Code-credentials"

var readKeychainSecret = keychain.ReadGenericPassword

// claudeCLIOAuth is the nested OAuth data inside Claude Code credentials.
type claudeCLIOAuth struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken,omitempty"`
	ExpiresAt    float64 `json:"expiresAt,omitempty"` // millisecond timestamp
}

type claudeCLICredentials struct {
	ClaudeAiOauth *claudeCLIOAuth `json:"claudeAiOauth,omitempty"`
}

// parseClaudeCredentials accepts the Claude Code format and the plain
// {"access_token": ...} format.
func parseClaudeCredentials(data []byte) (oauth.Credentials, error) {
	var cli claudeCLICredentials
	if err := json.Unmarshal(data, &cli); err != nil {
		return oauth.Credentials{}, fmt.Errorf("parsing credentials: %w", err)
	}
	if cli.ClaudeAiOauth != nil && cli.ClaudeAiOauth.AccessToken != "" {
		creds := oauth.Credentials{
			AccessToken:  cli.ClaudeAiOauth.AccessToken,
			RefreshToken: cli.ClaudeAiOauth.RefreshToken,
		}
		if cli.ClaudeAiOauth.ExpiresAt > 0 {
			creds.ExpiresAt = time.UnixMilli(int64(cli.ClaudeAiOauth.ExpiresAt)).UTC()
		}
		return creds, nil
	}

	var plain oauth.Credentials
	if err := json.Unmarshal(data, &plain); err == nil && plain.AccessToken != "" {
		return plain, nil
	}
	return oauth.Credentials{}, ErrNotFound
}

// Keychain reads the Claude Code entry from the macOS keychain.
type Keychain struct {
	Service string
}

func (k Keychain) Name() string { return "keychain" }

func (k Keychain) Load(ctx context.Context) (oauth.Credentials, error) {
	service := k.Service
	if service == "" {
		service = ClaudeKeychainService
	}
	secret, err := readKeychainSecret(ctx, service, "")
	if errors.Is(err, keychain.ErrNotFound) || errors.Is(err, keychain.ErrUnsupported) {
		return oauth.Credentials{}, ErrNotFound
	}
	if err != nil {
		return oauth.Credentials{}, err
	}
	return parseClaudeCredentials([]byte(secret))
}

// File reads a JSON credentials file, by default ~/.claude/.credentials.json.
type File struct {
	Path string
}

// DefaultFilePath is where Claude Code stores credentials on Linux and Windows.
func DefaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude", ".credentials.json")
}

func (f File) Name() string { return "file" }

func (f File) Load(_ context.Context) (oauth.Credentials, error) {
	if f.Path == "" {
		return oauth.Credentials{}, ErrNotFound
	}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return oauth.Credentials{}, ErrNotFound
	}
	if err != nil {
		return oauth.Credentials{}, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	return parseClaudeCredentials(data)
}

// EnvVar is the environment override for the access token.
const EnvVar = "LIMENT_TOKEN"

// Env reads a raw access token from an environment variable.
type Env struct {
	Var string
}

func (e Env) Name() string { return "env" }

func (e Env) Load(_ context.Context) (oauth.Credentials, error) {
	name := e.Var
	if name == "" {
		name = EnvVar
	}
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return oauth.Credentials{}, ErrNotFound
	}
	return oauth.Credentials{AccessToken: v}, nil
}

// Static is a token set in the config file.
type Static struct {
	Value string
}

func (s Static) Name() string { return "config" }

func (s Static) Load(_ context.Context) (oauth.Credentials, error) {
	if strings.TrimSpace(s.Value) == "" {
		return oauth.Credentials{}, ErrNotFound
	}
	return oauth.Credentials{AccessToken: strings.TrimSpace(s.Value)}, nil
}

// DefaultSources returns the standard lookup order for Claude Code tokens.
func DefaultSources(configToken string) []Source {
	return []Source{
		Keychain{Service: ClaudeKeychainService},
		File{Path: DefaultFilePath()},
		Env{Var: EnvVar},
		Static{Value: configToken},
	}
}
