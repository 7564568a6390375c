package domain

import (
	"slices"
	"strings"
	"time"
)

// UncategorizedLabel is the display value for a blank category.
const UncategorizedLabel = "Uncategorized"

// TrashRetention is how long a trashed resource is kept before the remote
// store purges it. Enforcement is remote; the value is informational.
const TrashRetention = 7 * 24 * time.Hour

// Resource is a saved link with its metadata and lifecycle flags.
type Resource struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the remote store on creation.
	ID string `json:"id"`

	// URL is never empty and drives provider classification.
	URL string `json:"url"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// Title defaults to the URL hostname when omitted at creation.
	Title string `json:"title"`

	Note string `json:"note"`

	// Category is stored raw. Blank is shown as UncategorizedLabel.
	Category string `json:"category"`

	// Tags keep their order and duplicates.
	Tags []string `json:"tags"`

	// CreatedAt is set once by the remote store.
	CreatedAt time.Time `json:"createdAt"`

	// ─────────────────────────────
	// Lifecycle flags
	// ─────────────────────────────

	IsArchived bool `json:"isArchived"`

	// IsPinned is orthogonal to the lifecycle state.
	IsPinned bool `json:"isPinned"`

	IsDeleted bool `json:"isDeleted"`

	// DeletedAt is set iff IsDeleted.
	DeletedAt *time.Time `json:"deletedAt"`

	// ─────────────────────────────
	// Membership (display only)
	// ─────────────────────────────

	Collections []CollectionRef `json:"collections"`
}

// LifecycleState is the storage visibility of a resource.
type LifecycleState string

const (
	StateActive             LifecycleState = "active"
	StateArchived           LifecycleState = "archived"
	StateTrashed            LifecycleState = "trashed"
	StatePermanentlyDeleted LifecycleState = "deleted"
)

// State derives the lifecycle state from the flags. Trash wins over archive.
func (r Resource) State() LifecycleState {
	switch {
	case r.IsDeleted:
		return StateTrashed
	case r.IsArchived:
		return StateArchived
	default:
		return StateActive
	}
}

// DisplayCategory returns the category with blank values normalized.
func (r Resource) DisplayCategory() string {
	return NormalizeCategory(r.Category)
}

// NormalizeCategory maps blank or whitespace-only categories to UncategorizedLabel.
func NormalizeCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return UncategorizedLabel
	}
	return category
}

// ExpiresAt returns when a trashed resource will be purged, or false when the
// resource is not in the trash.
func (r Resource) ExpiresAt() (time.Time, bool) {
	if !r.IsDeleted || r.DeletedAt == nil {
		return time.Time{}, false
	}
	return r.DeletedAt.Add(TrashRetention), true
}

// Clone returns a deep copy.
func (r Resource) Clone() Resource {
	out := r
	out.Tags = slices.Clone(r.Tags)
	out.Collections = slices.Clone(r.Collections)
	if r.DeletedAt != nil {
		at := *r.DeletedAt
		out.DeletedAt = &at
	}
	return out
}

// CloneAll deep-copies a resource list, preserving nil.
func CloneAll(list []Resource) []Resource {
	if list == nil {
		return nil
	}
	out := make([]Resource, len(list))
	for i := range list {
		out[i] = list[i].Clone()
	}
	return out
}

// ─────────────────────────────────────────────────────────────────
// Collections
// ─────────────────────────────────────────────────────────────────

// Collection is a user-created folder, many-to-many with Resource.
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CollectionRef is the weak membership reference carried by a resource.
type CollectionRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LifetimeStats are the remote counters. Active, Archived and Deleted
// partition the non-purged set; Lifetime never decreases.
type LifetimeStats struct {
	Lifetime int `json:"lifetime"`
	Active   int `json:"active"`
	Archived int `json:"archived"`
	Deleted  int `json:"deleted"`
}

// Metadata is best-effort link preview data.
type Metadata struct {
	Title      string `json:"title"`
	FaviconURL string `json:"faviconUrl"`
}
