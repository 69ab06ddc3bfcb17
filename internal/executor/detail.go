package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reqsearch/internal/metrics"
	"reqsearch/internal/models"
	"reqsearch/internal/query"
)

// requestDetail is the subset of a request object used for the summary.
type requestDetail struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Subject       string   `json:"subject"`
	StatusID      int64    `json:"statusId"`
	PriorityID    int64    `json:"priorityId"`
	RequesterName string   `json:"requesterName"`
	CreatedTime   int64    `json:"createdTime"`
	Tags          []string `json:"tags"`
}

// fetchDetail retrieves one specific request by identifier.
func (e *Executor) fetchDetail(ctx context.Context, res *models.ExecutionResult, id int64, token string) *models.ExecutionResult {
	desc := query.CallDescriptor{
		URL:    e.cfg.RequestDetailURL(id),
		Method: http.MethodGet,
	}
	res.APICall = &desc

	req, err := http.NewRequestWithContext(ctx, desc.Method, desc.URL, nil)
	if err != nil {
		return fail(res, &models.APIError{Kind: models.ErrValidation, Message: "could not build request", Detail: err.Error()})
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := e.client.Do(req)
	metrics.ObserveUpstream("detail", time.Since(start))
	if err != nil {
		return fail(res, &models.APIError{
			Kind:    models.ErrNetwork,
			Message: "request detail endpoint unreachable",
			Detail:  err.Error(),
		})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(res, &models.APIError{Kind: models.ErrNetwork, Message: "failed reading detail response", Detail: err.Error()})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(res, &models.APIError{
			Kind:       models.ErrUpstream,
			Message:    fmt.Sprintf("request %d not found or access denied", id),
			StatusCode: resp.StatusCode,
			Detail:     truncate(string(raw), 500),
		})
	}

	var detail requestDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return fail(res, &models.APIError{
			Kind:       models.ErrUpstream,
			Message:    "detail endpoint returned malformed payload",
			StatusCode: resp.StatusCode,
			Detail:     truncate(string(raw), 500),
		})
	}

	res.Success = true
	res.Data = raw
	res.Summary = &models.RequestSummary{
		ID:            detail.ID,
		Name:          detail.Name,
		Subject:       detail.Subject,
		StatusID:      detail.StatusID,
		PriorityID:    detail.PriorityID,
		RequesterName: detail.RequesterName,
		CreatedTime:   detail.CreatedTime,
		Tags:          detail.Tags,
	}
	res.Message = fmt.Sprintf("Found request %s: %s", orDefault(detail.Name, fmt.Sprintf("%d", id)), orDefault(detail.Subject, "no subject"))
	metrics.RecordExecution("ok")
	return res
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
