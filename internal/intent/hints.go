package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// PageHints are pagination adjustments inferred from a prompt. Nil fields
// mean the prompt said nothing about that parameter; explicit caller-supplied
// pagination always wins over hints.
type PageHints struct {
	Offset *int
	Size   *int
	SortBy *string
}

// ParsePageHints extracts pagination phrasing from a prompt: page position
// ("first", "next", "more") and sort preference ("sort by priority",
// "sort by date").
func ParsePageHints(text string) PageHints {
	lower := strings.ToLower(text)

	var h PageHints
	switch {
	case strings.Contains(lower, "first") || strings.Contains(lower, "page 1"):
		h.Offset = intPtr(0)
	case strings.Contains(lower, "next") || strings.Contains(lower, "page 2"):
		h.Offset = intPtr(25)
	case strings.Contains(lower, "more"):
		h.Size = intPtr(50)
	}

	switch {
	case strings.Contains(lower, "sort by priority") || strings.Contains(lower, "priority order"):
		h.SortBy = strPtr("priority")
	case strings.Contains(lower, "sort by date") || strings.Contains(lower, "creation time"):
		h.SortBy = strPtr("createdTime")
	}

	return h
}

var (
	requestIDPattern = regexp.MustCompile(`request\s+(?:id\s+|number\s+)?(\d+)`)
	ticketRefPattern = regexp.MustCompile(`(?:inc|req|ticket|request)[-\s]*(\d+)`)
	bareIDPattern    = regexp.MustCompile(`id\s*:?\s*(\d+)`)
)

// detailKeywords mark a prompt as asking for one specific request rather
// than a filtered search.
var detailKeywords = []string{
	"get request", "show request", "fetch request", "request details",
	"details of request", "info about request", "request info",
	"inc-", "req-", "ticket", "request id", "request number",
}

// ExtractRequestID pulls a specific request identifier out of a prompt,
// recognizing forms like "get request 2", "INC-2" and "id: 2".
func ExtractRequestID(text string) (int64, bool) {
	lower := strings.ToLower(text)

	for _, re := range []*regexp.Regexp{requestIDPattern, ticketRefPattern, bareIDPattern} {
		if m := re.FindStringSubmatch(lower); m != nil {
			id, err := strconv.ParseInt(m[1], 10, 64)
			if err == nil {
				return id, true
			}
		}
	}
	return 0, false
}

// IsDetailQuery reports whether a prompt asks for a single request by
// identifier. Both a detail keyword and an extractable identifier are
// required so that "show me urgent tickets" stays a search.
func IsDetailQuery(text string) bool {
	lower := strings.ToLower(text)

	found := false
	for _, kw := range detailKeywords {
		if strings.Contains(lower, kw) {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	_, ok := ExtractRequestID(text)
	return ok
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
