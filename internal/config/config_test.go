package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("%s should have panicked", name)
		}
	}()
	fn()
}

func TestRequireEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test_value")
	if got := requireEnv("TEST_VAR"); got != "test_value" {
		t.Errorf("requireEnv() = %v, want test_value", got)
	}
	mustPanic(t, "requireEnv() on a missing variable", func() { requireEnv("TEST_VAR_MISSING") })
}

func TestRequireURL(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  string
		wantPanic bool
	}{
		{name: "https", value: "https://khub.example.com/api", expected: "https://khub.example.com/api"},
		{name: "trailing slash trimmed", value: "http://localhost:3000/api/", expected: "http://localhost:3000/api"},
		{name: "no scheme", value: "khub.example.com", wantPanic: true},
		{name: "unsupported scheme", value: "ftp://khub.example.com", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_URL", tt.value)
			if tt.wantPanic {
				mustPanic(t, "requireURL()", func() { requireURL("TEST_URL") })
				return
			}
			if got := requireURL("TEST_URL"); got != tt.expected {
				t.Errorf("requireURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetenvFloat(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      float64
		expected float64
	}{
		{"valid", "2.5", 1, 2.5},
		{"zero", "0", 1, 0},
		{"negative uses default", "-1", 3, 3},
		{"invalid uses default", "fast", 4, 4},
		{"missing uses default", "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLOAT", tt.value)
			if got := getenvFloat("TEST_FLOAT", tt.def); got != tt.expected {
				t.Errorf("getenvFloat() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{"valid duration", "5s", time.Second, 5 * time.Second},
		{"invalid duration uses default", "invalid", 10 * time.Second, 10 * time.Second},
		{"missing variable uses default", "", 15 * time.Second, 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := mustDuration("TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{"true value", "true", false, true},
		{"false value", "0", true, false},
		{"invalid uses default", "maybe", true, true},
		{"missing uses default", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := mustBool("TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` "https://a.dev" , 'https://b.dev',, `)
	want := []string{"https://a.dev", "https://b.dev"}
	if len(got) != len(want) {
		t.Fatalf("splitAndTrim() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAndTrim()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if splitAndTrim("") != nil {
		t.Error("splitAndTrim(\"\") should be nil")
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "KHUB_API_BASE_URL=https://remote.example.com/api\nKHUB_LISTEN_PORT=:9999\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	t.Setenv("KHUB_ENV_FILE", path)
	// Already-set variables win over the file.
	t.Setenv("KHUB_LISTEN_PORT", ":7000")
	t.Setenv("KHUB_API_BASE_URL", "")
	_ = os.Unsetenv("KHUB_API_BASE_URL")
	t.Cleanup(func() { _ = os.Unsetenv("KHUB_API_BASE_URL") })

	cfg := Load()
	if cfg.APIBaseURL != "https://remote.example.com/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.ListenPort != ":7000" {
		t.Errorf("ListenPort = %q, want :7000", cfg.ListenPort)
	}
	if cfg.RedisEnabled() {
		t.Error("Redis should be disabled without KHUB_REDIS_ADDR")
	}
	if cfg.AutoLogin() {
		t.Error("AutoLogin() should be false without credentials")
	}
}

func TestLoadRejectsHalfCredentials(t *testing.T) {
	t.Setenv("KHUB_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("KHUB_API_BASE_URL", "https://remote.example.com/api")
	t.Setenv("KHUB_EMAIL", "me@example.com")
	t.Setenv("KHUB_PASSWORD", "")

	mustPanic(t, "Load() with only an email", func() { Load() })
}

func TestRedacted(t *testing.T) {
	cfg := Config{RedisPassword: "secret", RedisUser: "admin", Password: "hunter2", Email: "me@example.com"}
	r := cfg.Redacted()
	if r.RedisPassword == "secret" || r.RedisUser == "admin" || r.Password == "hunter2" {
		t.Errorf("Redacted() leaked a secret: %+v", r)
	}
	if r.Email != "me@example.com" {
		t.Error("Redacted() should keep the email")
	}
	if cfg.Password != "hunter2" {
		t.Error("Redacted() must not modify the receiver")
	}
}
