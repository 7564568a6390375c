package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateRange limits results to the last N days. Empty means no limit.
type DateRange string

const (
	RangeAny  DateRange = ""
	RangeWeek DateRange = "7"
	Range30   DateRange = "30"
	Range90   DateRange = "90"
	RangeYear DateRange = "365"
)

// Valid reports whether d is one of the offered ranges.
func (d DateRange) Valid() bool {
	switch d {
	case RangeAny, RangeWeek, Range30, Range90, RangeYear:
		return true
	default:
		return false
	}
}

// Days returns N, or 0 for RangeAny.
func (d DateRange) Days() int {
	n, err := strconv.Atoi(string(d))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FilterSpec is the multi-field filter. An empty field does not constrain.
type FilterSpec struct {
	Categories []string  `json:"categories" yaml:"categories" validate:"omitempty,dive,required"`
	Tags       []string  `json:"tags" yaml:"tags" validate:"omitempty,dive,required"`
	DateRange  DateRange `json:"dateRange" yaml:"dateRange" validate:"omitempty,oneof=7 30 90 365"`
	Sources    []string  `json:"sources" yaml:"sources" validate:"omitempty,dive,required"`
}

// IsEmpty reports whether no field constrains.
func (f FilterSpec) IsEmpty() bool {
	return len(f.Categories) == 0 && len(f.Tags) == 0 && f.DateRange == RangeAny && len(f.Sources) == 0
}

// Validate checks the date range and source ids.
func (f FilterSpec) Validate() error {
	if !f.DateRange.Valid() {
		return fmt.Errorf("invalid date range %q", f.DateRange)
	}
	for _, id := range f.Sources {
		if !KnownSource(id) {
			return fmt.Errorf("unknown source %q", id)
		}
	}
	return nil
}

// Query is everything the view needs to select resources.
type Query struct {
	Filter FilterSpec
	Search string
	Scope  ViewScope
}

// Matches reports whether r passes every field of spec, the search text and
// the pinned-only scope. It has no side effects.
func Matches(r Resource, spec FilterSpec, search string, scope ViewScope, now time.Time) bool {
	if scope == ScopePinnedOnly && !r.IsPinned {
		return false
	}
	return matchesSearch(r, search) &&
		matchesCategory(r, spec.Categories) &&
		matchesTags(r, spec.Tags) &&
		matchesDateRange(r, spec.DateRange, now) &&
		MatchesSource(r, spec.Sources)
}

// Apply returns the resources matching q, in input order.
func Apply(list []Resource, q Query, now time.Time) []Resource {
	out := make([]Resource, 0, len(list))
	for _, r := range list {
		if Matches(r, q.Filter, q.Search, q.Scope, now) {
			out = append(out, r)
		}
	}
	return out
}

func matchesSearch(r Resource, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(r.Title), needle) || strings.Contains(strings.ToLower(r.URL), needle) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// matchesCategory compares the raw category; blank is not "Uncategorized" here.
func matchesCategory(r Resource, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, c := range selected {
		if c == r.Category {
			return true
		}
	}
	return false
}

func matchesTags(r Resource, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, tag := range r.Tags {
		for _, want := range selected {
			if tag == want {
				return true
			}
		}
	}
	return false
}

func matchesDateRange(r Resource, d DateRange, now time.Time) bool {
	days := d.Days()
	if days == 0 {
		return true
	}
	cutoff := now.AddDate(0, 0, -days)
	return !r.CreatedAt.Before(cutoff)
}

// Categories returns the distinct non-blank categories in first-seen order.
func Categories(list []Resource) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range list {
		c := strings.TrimSpace(r.Category)
		if c == "" || seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}
