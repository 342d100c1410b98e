package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},

		{"DEBUG", slog.LevelDebug},
		{"Error", slog.LevelError},
		{" warn ", slog.LevelWarn},

		{"", slog.LevelInfo},
		{"trace", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsJSON(t *testing.T) {
	for input, want := range map[string]bool{
		"json": true,
		"JSON": true,
		"text": false,
		"":     false,
		"yaml": false,
	} {
		if got := IsJSON(input); got != want {
			t.Errorf("IsJSON(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestFromStringsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := FromStrings("warn", "json", &buf)

	logger.Info("dropped")
	logger.Warn("unresolved reference", "ref", "survey.title", "duration", 1500*time.Microsecond)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "unresolved reference" || entry["ref"] != "survey.title" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if entry["durationMs"] != 1.5 {
		t.Errorf("expected durationMs 1.5, got %v", entry["durationMs"])
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Component(New(Options{Output: &buf}), "api").Info("ready")
	if !strings.Contains(buf.String(), "component=api") {
		t.Errorf("missing component attribute: %q", buf.String())
	}

	// nil logger must not panic
	Component(nil, "api").Info("ignored")
	Nop().Error("ignored")
}
