package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{" info ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		got := ParseLevel(tt.input)
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "json", slog.LevelInfo)

	logger.Info("page stored", "page", 3, "raw_id", 42)

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("expected valid JSON output, got error: %v\noutput: %s", err, buf.String())
	}
	if m["msg"] != "page stored" {
		t.Errorf("expected msg 'page stored', got %q", m["msg"])
	}
	if m["page"] != float64(3) {
		t.Errorf("expected page 3, got %v", m["page"])
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "text", slog.LevelInfo)

	logger.Info("row skipped", "order_id", "1001")

	out := buf.String()
	if !strings.Contains(out, `msg="row skipped"`) {
		t.Errorf("expected text output containing msg, got: %s", out)
	}
	if !strings.Contains(out, "order_id=1001") {
		t.Errorf("expected text output containing order_id=1001, got: %s", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "text", slog.LevelWarn)

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got: %s", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn output, got: %s", buf.String())
	}
}
