package oauthstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func tokenServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.Form.Get("refresh_token"); got != "refresh-me" {
			t.Errorf("unexpected refresh token %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams},
		Scopes:       []string{Scope},
	}
}

func TestStore_RoundTripAndPermissions(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "token.json"))

	tok, err := store.Load()
	if err != nil || tok != nil {
		t.Fatalf("expected no token yet, got %v %v", tok, err)
	}

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	if err := store.Save(&oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: expiry}); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(store.Path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.AccessToken != "a" || loaded.RefreshToken != "r" || !loaded.Expiry.Equal(expiry) {
		t.Fatalf("unexpected token: %+v", loaded)
	}
}

func TestRefresh(t *testing.T) {
	calls := 0
	srv := tokenServer(t, &calls)
	cfg := testConfig(srv.URL)

	valid := &oauth2.Token{AccessToken: "still-good", Expiry: time.Now().Add(time.Hour)}
	if got, err := Refresh(context.Background(), cfg, valid); err != nil || got != valid {
		t.Fatalf("expected valid token unchanged, got %v %v", got, err)
	}

	expired := &oauth2.Token{AccessToken: "old", RefreshToken: "refresh-me", Expiry: time.Now().Add(-time.Hour)}
	got, err := Refresh(context.Background(), cfg, expired)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got.AccessToken != "fresh" || calls != 1 {
		t.Fatalf("unexpected refresh result: %+v calls=%d", got, calls)
	}

	if _, err := Refresh(context.Background(), cfg, nil); !errors.Is(err, ErrAuthorizationRequired) {
		t.Fatalf("expected ErrAuthorizationRequired for nil token, got %v", err)
	}
	noRefresh := &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Hour)}
	if _, err := Refresh(context.Background(), cfg, noRefresh); !errors.Is(err, ErrAuthorizationRequired) {
		t.Fatalf("expected ErrAuthorizationRequired without refresh token, got %v", err)
	}
}

func TestHTTPClient_SavesRefreshedToken(t *testing.T) {
	calls := 0
	srv := tokenServer(t, &calls)
	store := NewStore(filepath.Join(t.TempDir(), "token.json"))
	if err := store.Save(&oauth2.Token{AccessToken: "old", RefreshToken: "refresh-me", Expiry: time.Now().Add(-time.Hour)}); err != nil {
		t.Fatalf("save: %v", err)
	}

	client, err := HTTPClient(context.Background(), testConfig(srv.URL), store)
	if err != nil || client == nil {
		t.Fatalf("http client: %v", err)
	}
	saved, err := store.Load()
	if err != nil || saved.AccessToken != "fresh" {
		t.Fatalf("expected refreshed token to be saved, got %+v %v", saved, err)
	}

	if _, err := HTTPClient(context.Background(), testConfig(srv.URL), NewStore(filepath.Join(t.TempDir(), "absent.json"))); !errors.Is(err, ErrAuthorizationRequired) {
		t.Fatalf("expected ErrAuthorizationRequired without a token, got %v", err)
	}
}

func TestLoadClientConfig(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "client_secret.json")
	_, err := LoadClientConfig(missing)
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if !strings.Contains(err.Error(), "client_secret.json") {
		t.Fatalf("expected setup instructions naming the file, got %q", err.Error())
	}

	secrets := `{"installed":{"client_id":"id.apps.googleusercontent.com","client_secret":"s",` +
		`"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token",` +
		`"redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(missing, []byte(secrets), 0o600); err != nil {
		t.Fatalf("write secrets: %v", err)
	}
	cfg, err := LoadClientConfig(missing)
	if err != nil {
		t.Fatalf("load client config: %v", err)
	}
	if cfg.ClientID != "id.apps.googleusercontent.com" || len(cfg.Scopes) != 1 || cfg.Scopes[0] != Scope {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
