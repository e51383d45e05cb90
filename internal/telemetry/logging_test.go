package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/af-corp/llm-router/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.TelemetryConfig{LogLevel: "warn", LogFormat: "json"})

	logger.Info("dropped")
	logger.Warn("kept", "provider", "openai")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON log line: %v", err)
	}
	if entry["msg"] != "kept" || entry["provider"] != "openai" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.TelemetryConfig{LogLevel: "info", LogFormat: "text"})

	logger.Info("hello", "model", "gpt")

	if !strings.Contains(buf.String(), "msg=hello") || !strings.Contains(buf.String(), "model=gpt") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}
