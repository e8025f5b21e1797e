// Package search filters record sets by free text and categorical fields.
//
// Filtering is total: it never fails and ignores filter keys a record does not know.
// Free text is matched case-insensitively; categorical values must match exactly, and only
// an empty value or the literal "all" disables a filter.
package search

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
)

// All is the filter value that disables a categorical filter.
const All = "all"

// Record is anything the engine can filter.
type Record interface {
	// SearchText returns the fields matched by Query.Text.
	SearchText() []string
	// FieldValue returns the value of a categorical field, or false if the record has no such field.
	FieldValue(name string) (string, bool)
}

// Query is a free-text term plus categorical field filters.
type Query struct {
	Text    string            `json:"q,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
}

// IsEmpty reports whether q constrains nothing.
func (q Query) IsEmpty() bool {
	if strings.TrimSpace(q.Text) != "" {
		return false
	}
	for _, v := range q.Filters {
		if active(v) {
			return false
		}
	}
	return true
}

// Filter returns the records matching q in their original order. The result is never nil.
func Filter[T Record](records []T, q Query) []T {
	m := newMatcher(q)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether a single record satisfies q.
func Match(r Record, q Query) bool {
	return newMatcher(q).match(r)
}

type matcher struct {
	fold    cases.Caser
	text    string
	filters map[string]string
}

func newMatcher(q Query) *matcher {
	m := &matcher{fold: cases.Fold(), filters: make(map[string]string, len(q.Filters))}
	if t := strings.TrimSpace(q.Text); t != "" {
		m.text = m.fold.String(t)
	}
	for k, v := range q.Filters {
		if active(v) {
			m.filters[k] = v
		}
	}
	return m
}

func (m *matcher) match(r Record) bool {
	for key, want := range m.filters {
		got, ok := r.FieldValue(key)
		if !ok {
			continue
		}
		if got != want {
			return false
		}
	}
	if m.text == "" {
		return true
	}
	for _, field := range r.SearchText() {
		if strings.Contains(m.fold.String(field), m.text) {
			return true
		}
	}
	return false
}

func active(v string) bool {
	return v != "" && v != All
}

// ParseQuery builds a Query from request parameters: text is read from "q" (or "search") and
// each key names a categorical filter.
func ParseQuery(values url.Values, keys ...string) Query {
	q := Query{Text: values.Get("q"), Filters: make(map[string]string, len(keys))}
	if q.Text == "" {
		q.Text = values.Get("search")
	}
	for _, k := range keys {
		if v := values.Get(k); v != "" {
			q.Filters[k] = v
		}
	}
	return q
}
