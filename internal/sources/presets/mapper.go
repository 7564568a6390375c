package presets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/khub/internal/domain"
)

// Mapper converts the presets file to saved views.
type Mapper struct {
	now func() time.Time
}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{now: time.Now}
}

// Skipped describes a preset the mapper ignored.
type Skipped struct {
	Name   string
	Reason string
}

// MapViews converts the config to saved views. Presets with an empty name
// or invalid filters are skipped and reported. A config without a single
// valid preset is an error.
func (m *Mapper) MapViews(config PresetsConfig) ([]*domain.SavedView, []Skipped, error) {
	var (
		views   []*domain.SavedView
		skipped []Skipped
		seen    = make(map[string]bool)
	)
	now := m.now()

	for _, group := range config {
		for _, presets := range group {
			for _, entry := range presets {
				for name, props := range entry {
					name = strings.TrimSpace(name)
					if name == "" {
						skipped = append(skipped, Skipped{Reason: "empty name"})
						continue
					}

					filters := domain.FilterSpec{
						Categories: props.Categories,
						Tags:       props.Tags,
						Sources:    props.Sources,
						DateRange:  domain.DateRange(props.DateRange),
					}
					if err := filters.Validate(); err != nil {
						skipped = append(skipped, Skipped{Name: name, Reason: err.Error()})
						continue
					}

					id := presetID(name)
					if seen[id] {
						skipped = append(skipped, Skipped{Name: name, Reason: "duplicate name"})
						continue
					}
					seen[id] = true

					views = append(views, &domain.SavedView{
						ID:        id,
						Name:      name,
						Filters:   filters,
						Search:    strings.TrimSpace(props.Search),
						Sources:   []string{domain.ViewSourceFile},
						CreatedAt: now,
						UpdatedAt: now,
					})
				}
			}
		}
	}

	if len(views) == 0 {
		return nil, skipped, fmt.Errorf("no valid presets found in config")
	}

	return views, skipped, nil
}

// presetID derives a stable ID from the preset name so reloads update the
// same view. Names are case-insensitive.
func presetID(name string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(name)))
	return "preset-" + hex.EncodeToString(hash[:])[:16]
}
