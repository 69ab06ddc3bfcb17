package executor

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"reqsearch/internal/config"
	"reqsearch/internal/metrics"
)

// fallbackStatuses mirrors the stock status set of a fresh upstream
// install, used when the status endpoint cannot be queried.
var fallbackStatuses = map[string]int64{
	"open":        9,
	"in progress": 10,
	"pending":     11,
	"resolved":    12,
	"closed":      13,
}

// StatusResolver resolves status names to identifiers by querying the
// upstream status endpoint once per process. Resolution failure is never
// fatal: the fixed fallback table takes over and the result is cached
// either way.
type StatusResolver struct {
	mu      sync.Mutex
	loaded  bool
	mapping map[string]int64

	url            string
	fallbackClosed int64
	client         *http.Client
}

// NewStatusResolver creates a resolver for the configured upstream.
func NewStatusResolver(cfg *config.Config, client *http.Client) *StatusResolver {
	return &StatusResolver{
		url:            cfg.StatusSearchURL(),
		fallbackClosed: cfg.ClosedStatusID,
		client:         client,
	}
}

// ClosedStatusID returns the identifier of the closed status, resolving
// the status mapping on first use.
func (r *StatusResolver) ClosedStatusID(ctx context.Context, token string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		r.mapping = r.load(ctx, token)
		r.loaded = true
	}
	if id, ok := r.mapping["closed"]; ok {
		return id
	}
	return r.fallbackClosed
}

// statusEntry is one status object from the upstream status endpoint.
type statusEntry struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	SystemName string `json:"systemName"`
}

func (r *StatusResolver) load(ctx context.Context, token string) map[string]int64 {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, strings.NewReader("{}"))
	if err != nil {
		return fallbackStatuses
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := r.client.Do(req)
	metrics.ObserveUpstream("status", time.Since(start))
	if err != nil {
		slog.Warn("status endpoint unreachable, using fallback mapping", "error", err)
		return fallbackStatuses
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("status endpoint failed, using fallback mapping", "status", resp.StatusCode)
		return fallbackStatuses
	}

	entries, err := decodeStatusEntries(resp.Body)
	if err != nil {
		slog.Warn("status endpoint returned malformed payload, using fallback mapping", "error", err)
		return fallbackStatuses
	}

	mapping := make(map[string]int64, len(entries))
	for _, s := range entries {
		if s.ID == 0 {
			continue
		}
		if name := strings.ToLower(s.Name); name != "" {
			mapping[name] = s.ID
		}
		if sys := strings.ToLower(s.SystemName); sys != "" {
			mapping[sys] = s.ID
		}
	}
	if len(mapping) == 0 {
		return fallbackStatuses
	}

	slog.Info("status mapping loaded", "statuses", len(mapping))
	return mapping
}

// decodeStatusEntries accepts the two shapes the endpoint is known to
// return: a bare array, or a paginated {objectList: [...]} envelope.
func decodeStatusEntries(body io.Reader) ([]statusEntry, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	var entries []statusEntry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}

	var envelope struct {
		ObjectList []statusEntry `json:"objectList"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	return envelope.ObjectList, nil
}
