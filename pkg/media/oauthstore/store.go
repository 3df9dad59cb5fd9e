// Package oauthstore keeps the OAuth 2.0 token used by the Data API client
// on disk and refreshes it when it expires. The interactive consent flow is
// not handled here; a token must be obtained once by other means.
package oauthstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scope is the read-only YouTube scope.
const Scope = "https://www.googleapis.com/auth/youtube.readonly"

var (
	ErrMissingCredentials    = errors.New("oauthstore: client secrets file not found. Please set up OAuth 2.0 credentials")
	ErrAuthorizationRequired = errors.New("oauthstore: authorization required, no usable token")
)

// LoadClientConfig reads a Google client secrets file.
func LoadClientConfig(path string) (*oauth2.Config, error) {
	if err := CheckCredentials(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("oauthstore: read %s: %w", path, err)
	}
	cfg, err := google.ConfigFromJSON(data, Scope)
	if err != nil {
		return nil, fmt.Errorf("oauthstore: parse %s: %w", path, err)
	}
	return cfg, nil
}

// CheckCredentials reports ErrMissingCredentials, with setup instructions,
// when path does not exist.
func CheckCredentials(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w.\n\nDownload your OAuth 2.0 client credentials and save them as %q.\n"+
				"See: https://developers.google.com/youtube/v3/quickstart/go", ErrMissingCredentials, path)
		}
		return fmt.Errorf("oauthstore: stat %s: %w", path, err)
	}
	return nil
}

// Store persists one token as JSON.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load returns the saved token, or nil without error when none was saved.
func (s *Store) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("oauthstore: read token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("oauthstore: decode token: %w", err)
	}
	return &tok, nil
}

// Save writes tok readable by the owner only.
func (s *Store) Save(tok *oauth2.Token) error {
	if tok == nil {
		return errors.New("oauthstore: token is required")
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("oauthstore: encode token: %w", err)
	}
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("oauthstore: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("oauthstore: write token: %w", err)
	}
	return os.Chmod(s.Path, 0o600)
}

// Refresh returns tok when still valid, otherwise exchanges its refresh
// token for a new one.
func Refresh(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) (*oauth2.Token, error) {
	if tok == nil {
		return nil, ErrAuthorizationRequired
	}
	if tok.Valid() {
		return tok, nil
	}
	if tok.RefreshToken == "" || cfg == nil {
		return nil, ErrAuthorizationRequired
	}
	fresh, err := cfg.TokenSource(ctx, tok).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthorizationRequired, err)
	}
	return fresh, nil
}

// HTTPClient loads the stored token, refreshes and re-saves it when needed
// and returns a client that authorises every request.
func HTTPClient(ctx context.Context, cfg *oauth2.Config, store *Store) (*http.Client, error) {
	if store == nil {
		return nil, errors.New("oauthstore: store is required")
	}
	tok, err := store.Load()
	if err != nil {
		return nil, err
	}
	fresh, err := Refresh(ctx, cfg, tok)
	if err != nil {
		return nil, err
	}
	if fresh.AccessToken != tok.AccessToken {
		if err := store.Save(fresh); err != nil {
			return nil, err
		}
	}
	return oauth2.NewClient(ctx, cfg.TokenSource(ctx, fresh)), nil
}
