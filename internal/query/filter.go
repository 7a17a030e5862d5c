// Package query composes optional listing predicates (free-text search,
// inclusive date range) into a single pass over the record store's scan.
package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"winsbygroup.com/leadserver/internal/customer"
)

// ErrInvalidFilter is returned when a date bound cannot be parsed. It is
// raised before any record is evaluated; no partial results are produced.
var ErrInvalidFilter = errors.New("invalid filter")

const dateLayout = "2006-01-02"

// Filter holds validated predicates. All supplied predicates combine with
// AND; an empty Filter matches every record.
type Filter struct {
	search string // already case-folded, empty matches all
	start  string // YYYY-MM-DD, empty is unbounded
	end    string
}

// Parse validates the raw query inputs once up front. Empty strings mean
// "no predicate" for their slot.
func Parse(search, start, end string) (*Filter, error) {
	f := &Filter{}

	if s := strings.TrimSpace(search); s != "" {
		f.search = cases.Fold().String(s)
	}
	if start != "" {
		if _, err := time.Parse(dateLayout, start); err != nil {
			return nil, fmt.Errorf("%w: start date %q", ErrInvalidFilter, start)
		}
		f.start = start
	}
	if end != "" {
		if _, err := time.Parse(dateLayout, end); err != nil {
			return nil, fmt.Errorf("%w: end date %q", ErrInvalidFilter, end)
		}
		f.end = end
	}

	return f, nil
}

// Match reports whether a single record satisfies every predicate.
func (f *Filter) Match(c *customer.Customer) bool {
	if f.search != "" && !f.matchSearch(c) {
		return false
	}
	// Dates are ISO-8601 day strings, so lexicographic compare is date
	// compare. Both bounds are inclusive.
	if f.start != "" && c.CreatedAt < f.start {
		return false
	}
	if f.end != "" && c.CreatedAt > f.end {
		return false
	}
	return true
}

func (f *Filter) matchSearch(c *customer.Customer) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(c.Name), f.search) ||
		strings.Contains(fold.String(c.Email), f.search) ||
		strings.Contains(fold.String(c.Phone), f.search)
}

// Apply filters records in a single pass, preserving input order. An empty
// result is valid, not an error.
func (f *Filter) Apply(records []customer.Customer) []customer.Customer {
	out := make([]customer.Customer, 0, len(records))
	for i := range records {
		if f.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}
