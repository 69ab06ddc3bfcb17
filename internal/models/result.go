// Package models holds the shared result and error shapes of the service.
package models

import (
	"encoding/json"
	"time"

	"reqsearch/internal/query"
)

// SearchResponse is the paginated envelope the upstream search API returns.
type SearchResponse struct {
	ObjectList json.RawMessage `json:"objectList"`
	TotalCount int64           `json:"totalCount"`
}

// ExecutionResult is the normalized outcome of one executed prompt.
// Failures are expressed in the result rather than raised; the serving
// layer maps ErrorKind to a transport status code.
type ExecutionResult struct {
	Success     bool                  `json:"success"`
	ExecutionID string                `json:"execution_id"`
	Data        json.RawMessage       `json:"data,omitempty"`
	TotalCount  *int64                `json:"total_count,omitempty"`
	Message     string                `json:"message,omitempty"`
	Error       string                `json:"error,omitempty"`
	ErrorKind   ErrorKind             `json:"error_kind,omitempty"`
	Details     string                `json:"details,omitempty"`
	Summary     *RequestSummary       `json:"summary,omitempty"`
	APICall     *query.CallDescriptor `json:"api_call,omitempty"`
	UserPrompt  string                `json:"user_prompt"`
	Timestamp   time.Time             `json:"timestamp"`
}

// RequestSummary condenses a single fetched request for display.
type RequestSummary struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name,omitempty"`
	Subject       string   `json:"subject,omitempty"`
	StatusID      int64    `json:"status_id,omitempty"`
	PriorityID    int64    `json:"priority_id,omitempty"`
	RequesterName string   `json:"requester_name,omitempty"`
	CreatedTime   int64    `json:"created_time,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}
