package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"reqsearch/internal/models"
)

// fakeClock is a controllable time source for cache expiry tests.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func countingFetch(clock *fakeClock, ttl time.Duration, calls *int) FetchFunc {
	return func(ctx context.Context) (*oauth2.Token, error) {
		*calls++
		return &oauth2.Token{
			AccessToken: "token-" + string(rune('a'+*calls-1)),
			Expiry:      clock.Now().Add(ttl),
		}, nil
	}
}

func TestTokenCacheHitWithinValidity(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	cache := newTokenCacheWithFetch(countingFetch(clock, time.Hour, &calls), clock.Now, time.Minute)

	first, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("initial Token() made %d fetches, want 1", calls)
	}

	// Still well within the validity window.
	clock.Advance(30 * time.Minute)
	second, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("Token() within validity made %d fetches, want 1", calls)
	}
	if first != second {
		t.Errorf("Token() = %q, want cached %q", second, first)
	}
}

func TestTokenCacheRefreshesBeforeExpiry(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	cache := newTokenCacheWithFetch(countingFetch(clock, time.Hour, &calls), clock.Now, time.Minute)

	first, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	// Inside the safety margin: expiry minus margin has passed.
	clock.Advance(time.Hour - 30*time.Second)
	second, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("Token() past safety margin made %d fetches, want 2", calls)
	}
	if first == second {
		t.Errorf("Token() = %q, want a fresh token", second)
	}
}

func TestTokenCacheFetchFailureLeavesStateIntact(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	working := countingFetch(clock, time.Hour, &calls)
	failing := false
	cache := newTokenCacheWithFetch(func(ctx context.Context) (*oauth2.Token, error) {
		if failing {
			return nil, errors.New("connection refused")
		}
		return working(ctx)
	}, clock.Now, time.Minute)

	if _, err := cache.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	// Expire the token, then make the fetch fail.
	clock.Advance(2 * time.Hour)
	failing = true
	_, err := cache.Token(context.Background())
	if err == nil {
		t.Fatal("Token() after failed fetch: expected error")
	}
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != models.ErrAuth {
		t.Errorf("Token() error = %v, want APIError of kind auth_error", err)
	}

	// Recovery: the cache retries on the next call, no poisoned state.
	failing = false
	tok, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() after recovery error = %v", err)
	}
	if tok == "" {
		t.Error("Token() after recovery returned empty token")
	}
	if calls != 2 {
		t.Errorf("fetch count = %d, want 2", calls)
	}
}

func TestTokenCacheConcurrentRefresh(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	cache := newTokenCacheWithFetch(func(ctx context.Context) (*oauth2.Token, error) {
		calls++
		return &oauth2.Token{
			AccessToken: "shared-token",
			Expiry:      clock.Now().Add(time.Hour),
		}, nil
	}, clock.Now, time.Minute)

	const workers = 16
	tokens := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = cache.Token(context.Background())
		}(i)
	}
	wg.Wait()

	// One refresh serves every caller; no fan-out of redundant fetches.
	if calls != 1 {
		t.Errorf("concurrent Token() calls made %d fetches, want 1", calls)
	}
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("Token() error = %v", errs[i])
		}
		if tokens[i] != "shared-token" {
			t.Errorf("worker %d got token %q, want %q", i, tokens[i], "shared-token")
		}
	}
}

func TestTokenCacheMissingAccessToken(t *testing.T) {
	clock := newFakeClock()
	cache := newTokenCacheWithFetch(func(ctx context.Context) (*oauth2.Token, error) {
		return &oauth2.Token{Expiry: clock.Now().Add(time.Hour)}, nil
	}, clock.Now, time.Minute)

	_, err := cache.Token(context.Background())
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != models.ErrAuth {
		t.Errorf("Token() error = %v, want APIError of kind auth_error", err)
	}
}

func TestPasswordGrantFetcher(t *testing.T) {
	var gotGrant, gotUser, gotPass string
	var gotBasicID, gotBasicSecret string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		gotGrant = r.PostFormValue("grant_type")
		gotUser = r.PostFormValue("username")
		gotPass = r.PostFormValue("password")
		gotBasicID, gotBasicSecret, _ = r.BasicAuth()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "granted-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer ts.Close()

	cache := NewTokenCache(Config{
		TokenURL:     ts.URL,
		Username:     "automind@example.com",
		Password:     "secret",
		ClientID:     "web-app",
		ClientSecret: "client-secret",
		Margin:       time.Minute,
		Timeout:      5 * time.Second,
	})

	tok, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok != "granted-token" {
		t.Errorf("Token() = %q, want %q", tok, "granted-token")
	}
	if gotGrant != "password" {
		t.Errorf("grant_type = %q, want %q", gotGrant, "password")
	}
	if gotUser != "automind@example.com" || gotPass != "secret" {
		t.Errorf("credentials = %q/%q, want configured user/password", gotUser, gotPass)
	}
	if gotBasicID != "web-app" || gotBasicSecret != "client-secret" {
		t.Errorf("basic auth = %q/%q, want client credentials", gotBasicID, gotBasicSecret)
	}
}

func TestPasswordGrantFetcherUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	cache := NewTokenCache(Config{
		TokenURL: ts.URL,
		Username: "u",
		Password: "p",
		ClientID: "c",
		Margin:   time.Minute,
		Timeout:  5 * time.Second,
	})

	_, err := cache.Token(context.Background())
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Token() error = %v, want APIError", err)
	}
	if apiErr.Kind != models.ErrAuth {
		t.Errorf("error kind = %q, want %q", apiErr.Kind, models.ErrAuth)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("error status = %d, want %d", apiErr.StatusCode, http.StatusUnauthorized)
	}
}
