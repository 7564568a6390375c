package presets

import (
	"os"
	"path/filepath"
	"testing"
)

func writePresets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "views.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writePresets(t, `---
- Learning:
    - Go videos:
        sources: [youtube]
        tags: [go]
        dateRange: "30"
`)

	config, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(config) != 1 {
		t.Fatalf("Load() returned %d groups, want 1", len(config))
	}
	props := config[0]["Learning"][0]["Go videos"]
	if props.DateRange != "30" || len(props.Sources) != 1 || props.Sources[0] != "youtube" {
		t.Errorf("Load() parsed %+v", props)
	}
}

func TestLoaderLoadWithPlaceholders(t *testing.T) {
	path := writePresets(t, `---
- Team:
    - Team links:
        tags: [{{TEAM_TAG}}]
        search: {{MISSING}}
`)

	l := NewLoader(path)
	l.lookup = func(name string) (string, bool) {
		if name == "TEAM_TAG" {
			return "platform", true
		}
		return "", false
	}

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	props := config[0]["Team"][0]["Team links"]
	if len(props.Tags) != 1 || props.Tags[0] != "platform" {
		t.Errorf("tags = %v, want [platform]", props.Tags)
	}
	if props.Search != "" {
		t.Errorf("search = %q, want empty", props.Search)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	_, err := NewLoader("/nonexistent/path/views.yaml").Load()
	if err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestExpandPlaceholders(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "URL" {
			return "https://a.dev", true
		}
		return "", false
	}
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"known variable", "url: {{URL}}", `url: "https://a.dev"`},
		{"spaces inside braces", "url: {{ URL }}", `url: "https://a.dev"`},
		{"unknown variable", "url: {{NOPE}}", `url: ""`},
		{"no placeholders", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(expandPlaceholders([]byte(tt.input), lookup))
			if got != tt.expected {
				t.Errorf("expandPlaceholders() = %q, want %q", got, tt.expected)
			}
		})
	}
}
