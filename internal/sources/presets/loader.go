package presets

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Loader reads the saved-view presets file.
type Loader struct {
	filePath string
	lookup   func(string) (string, bool)
}

// NewLoader creates a loader for filePath. Placeholders are resolved from
// the process environment.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		lookup:   os.LookupEnv,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the presets file
func (l *Loader) Load() (PresetsConfig, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	data = expandPlaceholders(data, l.lookup)

	var config PresetsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse presets yaml: %w", err)
	}

	return config, nil
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// expandPlaceholders replaces {{NAME}} with the quoted value of NAME, or an
// empty string when it is unset.
// Example: tags: [{{KHUB_TEAM_TAG}}] -> tags: ["platform"]
func expandPlaceholders(data []byte, lookup func(string) (string, bool)) []byte {
	return placeholderRe.ReplaceAllFunc(data, func(m []byte) []byte {
		name := placeholderRe.FindSubmatch(m)[1]
		val, _ := lookup(string(name))
		return fmt.Appendf(nil, "%q", val)
	})
}
