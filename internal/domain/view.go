package domain

import "time"

// SavedView is a named filter preset.
type SavedView struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is a nanoid for user-created views, or a hash of the name for
	// views loaded from the presets file.
	ID string `json:"id"`

	Name string `json:"name" validate:"required,max=80"`

	// ─────────────────────────────
	// Preset
	// ─────────────────────────────

	Filters FilterSpec `json:"filters"`

	// Search is optional free text applied with the filters.
	Search string `json:"search,omitempty"`

	// ─────────────────────────────
	// Provenance & observation
	// ─────────────────────────────

	// Sources tells where the view came from: "user" or "file".
	Sources []string `json:"sources"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// ─────────────────────────────
	// Liveness & cleanup
	// ─────────────────────────────

	// Disabled marks a file preset that disappeared from the file. It is
	// garbage-collected later.
	Disabled bool `json:"disabled"`
}

// View sources.
const (
	ViewSourceUser = "user"
	ViewSourceFile = "file"
)

// HasSource reports whether the view came from src.
func (v SavedView) HasSource(src string) bool {
	for _, s := range v.Sources {
		if s == src {
			return true
		}
	}
	return false
}
