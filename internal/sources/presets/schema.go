package presets

// PresetsConfig is the top-level structure of the presets file: a list of
// groups, each a list of single-key maps from view name to its filters.
// Groups use dynamic keys, so it parses as
// []map[group][]map[viewName]PresetProps.
type PresetsConfig []map[string][]map[string]PresetProps

// PresetProps are the filters of one preset.
type PresetProps struct {
	Search     string   `yaml:"search,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
	Sources    []string `yaml:"sources,omitempty"`
	DateRange  string   `yaml:"dateRange,omitempty"`
}
