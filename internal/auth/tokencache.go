// Package auth manages the OAuth access token for the upstream API.
package auth

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"reqsearch/internal/metrics"
	"reqsearch/internal/models"
)

// Config carries everything needed to obtain tokens from the upstream
// OAuth endpoint.
type Config struct {
	TokenURL     string
	Username     string
	Password     string
	ClientID     string
	ClientSecret string

	// Margin is the safety buffer before expiry within which a cached
	// token is treated as stale and refreshed proactively.
	Margin time.Duration

	Timeout            time.Duration
	InsecureSkipVerify bool
}

// FetchFunc obtains a fresh token. The production fetcher performs the
// password-grant exchange; tests substitute a stub.
type FetchFunc func(ctx context.Context) (*oauth2.Token, error)

// TokenCache holds a single cached access token and refreshes it before
// expiry. Safe for concurrent use; the mutex is held across a refresh so
// concurrent callers never trigger redundant fetches and always observe a
// fully-populated entry.
type TokenCache struct {
	mu     sync.Mutex
	fetch  FetchFunc
	now    func() time.Time
	margin time.Duration
	tok    *oauth2.Token
}

// NewTokenCache creates a cache that fetches tokens with the OAuth2
// resource-owner password grant.
func NewTokenCache(cfg Config) *TokenCache {
	return &TokenCache{
		fetch:  passwordGrantFetcher(cfg),
		now:    time.Now,
		margin: cfg.Margin,
	}
}

// newTokenCacheWithFetch is the test constructor with an injectable fetch
// func and clock.
func newTokenCacheWithFetch(fetch FetchFunc, now func() time.Time, margin time.Duration) *TokenCache {
	return &TokenCache{fetch: fetch, now: now, margin: margin}
}

// Token returns a valid access token, fetching or refreshing as needed.
// A fetch failure leaves any previously cached entry untouched and returns
// a *models.APIError of kind ErrAuth.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tok != nil && c.now().Before(c.tok.Expiry.Add(-c.margin)) {
		return c.tok.AccessToken, nil
	}

	tok, err := c.fetch(ctx)
	if err != nil {
		metrics.RecordTokenRefresh("error")
		return "", asAuthError(err)
	}
	if tok.AccessToken == "" {
		metrics.RecordTokenRefresh("error")
		return "", &models.APIError{
			Kind:    models.ErrAuth,
			Message: "authentication response missing access token",
		}
	}

	// Replaced wholesale; the old entry is never mutated in place.
	c.tok = tok
	metrics.RecordTokenRefresh("ok")
	slog.Info("access token refreshed", "expires_at", tok.Expiry)
	return tok.AccessToken, nil
}

// passwordGrantFetcher exchanges resource-owner credentials for a token.
// Client credentials travel in a Basic header, matching what the vendor's
// own web client sends.
func passwordGrantFetcher(cfg Config) FetchFunc {
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.InsecureSkipVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return func(ctx context.Context) (*oauth2.Token, error) {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, client)
		return oc.PasswordCredentialsToken(ctx, cfg.Username, cfg.Password)
	}
}

// asAuthError normalizes oauth2 failures into the structured error shape,
// preserving the upstream status and body when present.
func asAuthError(err error) *models.APIError {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		return &models.APIError{
			Kind:       models.ErrAuth,
			Message:    "authentication rejected by upstream",
			StatusCode: status,
			Detail:     string(re.Body),
		}
	}
	return &models.APIError{
		Kind:    models.ErrAuth,
		Message: "could not reach authentication endpoint",
		Detail:  err.Error(),
	}
}
