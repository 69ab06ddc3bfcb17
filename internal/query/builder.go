// Package query builds upstream search calls from parsed intent.
package query

import (
	"fmt"
	"net/url"
	"sort"

	"reqsearch/internal/intent"
	"reqsearch/internal/qual"
)

// Pagination carries the query parameters of a search call.
type Pagination struct {
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	SortBy string `json:"sort_by"`
}

// Values renders the pagination as URL query parameters.
func (p Pagination) Values() url.Values {
	v := url.Values{}
	v.Set("offset", fmt.Sprintf("%d", p.Offset))
	v.Set("size", fmt.Sprintf("%d", p.Size))
	v.Set("sort_by", p.SortBy)
	return v
}

// CallDescriptor fully describes one upstream API call. It is built fresh
// per request and echoed back in results for diagnostics.
type CallDescriptor struct {
	URL        string           `json:"url"`
	Method     string           `json:"method"`
	Body       *qual.SearchBody `json:"request_body,omitempty"`
	Pagination Pagination       `json:"parameters,omitzero"`
}

// Builder converts parsed intent into search call descriptors.
// It is a pure value type; building never fails and never touches the
// network.
type Builder struct {
	SearchURL      string // base search endpoint, without query parameters
	DefaultOffset  int
	DefaultSize    int
	MaxSize        int
	DefaultSortBy  string
	ClosedStatusID int64
}

// Clamp fills in defaults for unset pagination fields and forces
// out-of-range values back into range. Out-of-range input is corrected,
// never rejected.
func (b Builder) Clamp(p Pagination) Pagination {
	if p.Offset < 0 {
		p.Offset = b.DefaultOffset
	}
	if p.Size <= 0 {
		p.Size = b.DefaultSize
	}
	if p.Size > b.MaxSize {
		p.Size = b.MaxSize
	}
	if p.SortBy == "" {
		p.SortBy = b.DefaultSortBy
	}
	return p
}

// Build produces the search call for the given intent and pagination.
//
// The filter body always leads with the closed-status exclusion; a priority
// condition follows only when the intent names priorities. Priority
// identifiers are deduplicated and sorted ascending so identical inputs
// marshal to byte-identical bodies.
func (b Builder) Build(in intent.Intent, p Pagination) CallDescriptor {
	p = b.Clamp(p)

	quals := []qual.Qualification{
		qual.NewRelational(
			qual.Property(qual.PropertyStatusID),
			qual.OperatorNotIn,
			qual.Literal(qual.LongList(b.ClosedStatusID)),
		),
	}

	if !in.Empty() {
		quals = append(quals, qual.NewRelational(
			qual.Property(qual.PropertyPriorityID),
			qual.OperatorIn,
			qual.Literal(qual.LongList(normalizeIDs(in.PriorityIDs)...)),
		))
	}

	return CallDescriptor{
		URL:        b.SearchURL + "?" + p.Values().Encode(),
		Method:     "POST",
		Body:       &qual.SearchBody{QualDetails: qual.NewFlat(quals...)},
		Pagination: p,
	}
}

// normalizeIDs returns a deduplicated, ascending copy of ids.
func normalizeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
