package domain

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode orders resources within equal pin status.
type SortMode string

const (
	SortNewest SortMode = "newest"
	SortOldest SortMode = "oldest"
	SortAZ     SortMode = "az"
)

// ParseSortMode defaults to newest.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	case SortAZ:
		return SortAZ, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
}

// Comparator orders resources for one sort mode and scope. It holds a
// collator and is not safe for concurrent use.
type Comparator struct {
	mode     SortMode
	scope    ViewScope
	collator *collate.Collator
}

// NewComparator builds a comparator using English collation for titles.
func NewComparator(mode SortMode, scope ViewScope) *Comparator {
	return &Comparator{
		mode:     mode,
		scope:    scope,
		collator: collate.New(language.English, collate.IgnoreCase),
	}
}

// Compare returns -1, 0 or 1. Pinned resources come first except in the
// trash, then the sort mode applies.
func (c *Comparator) Compare(a, b Resource) int {
	if c.scope != ScopeTrash && a.IsPinned != b.IsPinned {
		if a.IsPinned {
			return -1
		}
		return 1
	}
	switch c.mode {
	case SortOldest:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortAZ:
		return sign(c.collator.CompareString(a.Title, b.Title))
	default:
		return b.CreatedAt.Compare(a.CreatedAt)
	}
}

// Compare is a one-shot form of Comparator.Compare.
func Compare(a, b Resource, mode SortMode, scope ViewScope) int {
	return NewComparator(mode, scope).Compare(a, b)
}

// Sort returns a stably sorted copy of list. Ties keep input order.
func Sort(list []Resource, mode SortMode, scope ViewScope) []Resource {
	out := slices.Clone(list)
	c := NewComparator(mode, scope)
	slices.SortStableFunc(out, c.Compare)
	return out
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
