package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNamedTagsComponent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := wrap(zap.New(core)).Named("api")

	log.Warn("request failed", String("path", "/resources"), Int("status", 502))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.LoggerName != "api" || e.Message != "request failed" {
		t.Errorf("entry = %q %q, want api / request failed", e.LoggerName, e.Message)
	}
	if got := e.ContextMap()["status"]; got != int64(502) {
		t.Errorf("status field = %v, want 502", got)
	}
}

func TestNopDiscards(t *testing.T) {
	log := NewNop().Named("x")
	log.Error("dropped", Bool("b", true))
	if err := log.Sync(); err != nil {
		t.Errorf("Sync() = %v", err)
	}
}
