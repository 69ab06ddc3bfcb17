// Package executor orchestrates prompt execution: parse intent, resolve a
// token, build the upstream call, perform it, and normalize the outcome.
package executor

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"reqsearch/internal/config"
	"reqsearch/internal/intent"
	"reqsearch/internal/metrics"
	"reqsearch/internal/models"
	"reqsearch/internal/query"
)

// TokenSource supplies bearer tokens for upstream calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Executor executes natural-language prompts against the upstream API.
// All failures come back inside the ExecutionResult; Execute never panics
// or returns a Go error.
type Executor struct {
	cfg      *config.Config
	table    *intent.Table
	builder  query.Builder
	tokens   TokenSource
	statuses *StatusResolver
	client   *http.Client
}

// New creates an executor wired to the configured upstream.
func New(cfg *config.Config, tokens TokenSource) *Executor {
	client := &http.Client{Timeout: cfg.RequestTimeout}
	if cfg.InsecureSkipVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Executor{
		cfg:   cfg,
		table: intent.NewTable(),
		builder: query.Builder{
			SearchURL:      cfg.RequestSearchURL(),
			DefaultOffset:  cfg.DefaultOffset,
			DefaultSize:    cfg.DefaultSize,
			MaxSize:        cfg.MaxSize,
			DefaultSortBy:  cfg.DefaultSortBy,
			ClosedStatusID: cfg.ClosedStatusID,
		},
		tokens:   tokens,
		statuses: NewStatusResolver(cfg, client),
		client:   client,
	}
}

// Execute runs one prompt. Pagination fields left negative, zero or empty
// are treated as unspecified: prompt hints fill them first, configured
// defaults after.
func (e *Executor) Execute(ctx context.Context, prompt string, page query.Pagination, overrideToken string) *models.ExecutionResult {
	res := &models.ExecutionResult{
		ExecutionID: uuid.NewString(),
		UserPrompt:  prompt,
		Timestamp:   time.Now().UTC(),
	}

	token := overrideToken
	if token == "" {
		var err error
		token, err = e.tokens.Token(ctx)
		if err != nil {
			return fail(res, err)
		}
	}

	// A prompt naming one specific request bypasses the search flow.
	if intent.IsDetailQuery(prompt) {
		id, _ := intent.ExtractRequestID(prompt)
		return e.fetchDetail(ctx, res, id, token)
	}

	in := e.table.Parse(prompt)
	page = applyHints(page, intent.ParsePageHints(prompt))

	builder := e.builder
	builder.ClosedStatusID = e.statuses.ClosedStatusID(ctx, token)
	desc := builder.Build(in, page)
	res.APICall = &desc

	body, err := json.Marshal(desc.Body)
	if err != nil {
		return fail(res, &models.APIError{Kind: models.ErrValidation, Message: "could not encode request body", Detail: err.Error()})
	}

	req, err := http.NewRequestWithContext(ctx, desc.Method, desc.URL, bytes.NewReader(body))
	if err != nil {
		return fail(res, &models.APIError{Kind: models.ErrValidation, Message: "could not build request", Detail: err.Error()})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := e.client.Do(req)
	metrics.ObserveUpstream("search", time.Since(start))
	if err != nil {
		return fail(res, &models.APIError{
			Kind:    models.ErrNetwork,
			Message: "search endpoint unreachable",
			Detail:  err.Error(),
		})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(res, &models.APIError{Kind: models.ErrNetwork, Message: "failed reading search response", Detail: err.Error()})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(res, &models.APIError{
			Kind:       models.ErrUpstream,
			Message:    upstreamMessage(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Detail:     truncate(string(raw), 500),
		})
	}

	var sr models.SearchResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return fail(res, &models.APIError{
			Kind:       models.ErrUpstream,
			Message:    "search endpoint returned malformed payload",
			StatusCode: resp.StatusCode,
			Detail:     truncate(string(raw), 500),
		})
	}

	res.Success = true
	res.Data = raw
	res.TotalCount = &sr.TotalCount
	res.Message = e.successMessage(in, sr.TotalCount)
	metrics.RecordExecution("ok")
	return res
}

// successMessage names the matched priorities when the prompt filtered on
// them, e.g. "Found 5 requests with priority High + Urgent".
func (e *Executor) successMessage(in intent.Intent, total int64) string {
	if in.Empty() {
		return fmt.Sprintf("Found %d requests", total)
	}
	names := e.table.Names(in.PriorityIDs)
	return fmt.Sprintf("Found %d requests with priority %s", total, strings.Join(names, " + "))
}

// ValidationFailure builds a failed result for caller input rejected
// before any network call.
func ValidationFailure(prompt, message string) *models.ExecutionResult {
	res := &models.ExecutionResult{
		ExecutionID: uuid.NewString(),
		UserPrompt:  prompt,
		Timestamp:   time.Now().UTC(),
	}
	return fail(res, &models.APIError{Kind: models.ErrValidation, Message: message})
}

// applyHints fills unspecified pagination slots from prompt hints.
// Explicit caller values always win.
func applyHints(p query.Pagination, h intent.PageHints) query.Pagination {
	if p.Offset < 0 && h.Offset != nil {
		p.Offset = *h.Offset
	}
	if p.Size <= 0 && h.Size != nil {
		p.Size = *h.Size
	}
	if p.SortBy == "" && h.SortBy != nil {
		p.SortBy = *h.SortBy
	}
	return p
}

// fail marks the result with the structured error and records the outcome.
func fail(res *models.ExecutionResult, err error) *models.ExecutionResult {
	res.Success = false
	if apiErr, ok := err.(*models.APIError); ok {
		res.Error = apiErr.Message
		res.ErrorKind = apiErr.Kind
		res.Details = apiErr.Detail
		if apiErr.StatusCode != 0 {
			res.Error = fmt.Sprintf("%s (status %d)", apiErr.Message, apiErr.StatusCode)
		}
		metrics.RecordExecution(string(apiErr.Kind))
		return res
	}
	res.Error = err.Error()
	metrics.RecordExecution("error")
	return res
}

func upstreamMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "API call failed: authentication rejected"
	case http.StatusForbidden:
		return "API call failed: access forbidden"
	case http.StatusNotFound:
		return "API call failed: endpoint not found"
	case http.StatusBadGateway:
		return "API call failed: server error (bad gateway)"
	case http.StatusInternalServerError:
		return "API call failed: internal server error"
	default:
		return fmt.Sprintf("API call failed with status %d", status)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
