// Package intent turns free-text prompts into structured search intent.
//
// The parsers here are total functions: text that matches nothing yields
// the empty intent, which downstream treats as "match all". Callers never
// see an error from this package.
package intent

import (
	"strings"
)

// Priority is a single priority level with its stable upstream identifier.
type Priority struct {
	Name string
	ID   int64
}

// Table is the immutable keyword-to-identifier mapping for priorities.
// Construct once at startup and share; it is safe for concurrent use.
type Table struct {
	priorities []Priority
}

// NewTable returns the canonical priority table. The slice order doubles as
// the output order of Parse, so identifiers come out ascending.
func NewTable() *Table {
	return &Table{
		priorities: []Priority{
			{Name: "low", ID: 1},
			{Name: "medium", ID: 2},
			{Name: "high", ID: 3},
			{Name: "urgent", ID: 4},
		},
	}
}

// Intent is the parsed priority filter extracted from a prompt.
// An empty PriorityIDs slice means "no priority filter".
type Intent struct {
	PriorityIDs []int64
}

// Empty reports whether the intent carries no priority filter.
func (i Intent) Empty() bool {
	return len(i.PriorityIDs) == 0
}

// Parse scans text for priority keywords and returns the matched identifiers
// in table order. Matching is a case-insensitive substring scan, so
// "low and medium" yields both and mention order never matters.
func (t *Table) Parse(text string) Intent {
	lower := strings.ToLower(text)

	var ids []int64
	for _, p := range t.priorities {
		if strings.Contains(lower, p.Name) {
			ids = append(ids, p.ID)
		}
	}
	return Intent{PriorityIDs: ids}
}

// Names returns the display names for a set of priority identifiers,
// in table order. Unknown identifiers are skipped.
func (t *Table) Names(ids []int64) []string {
	var names []string
	for _, p := range t.priorities {
		for _, id := range ids {
			if id == p.ID {
				names = append(names, capitalize(p.Name))
				break
			}
		}
	}
	return names
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
