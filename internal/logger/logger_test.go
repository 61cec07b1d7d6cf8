// ABOUTME: Tests for logging configuration
// ABOUTME: Verifies level parsing and file logging for the TUI

package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
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
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := parseLevel(tc.input); got != tc.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "info", "json")
	defer Init(os.Stderr, "warn", "text")

	slog.Info("hello", "key", "value")

	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON log line, got %q", buf.String())
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "warn", "text")
	defer Init(os.Stderr, "warn", "text")

	slog.Info("quiet")
	slog.Warn("loud")

	if strings.Contains(buf.String(), "quiet") {
		t.Error("expected info message to be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "loud") {
		t.Error("expected warn message to be logged")
	}
}

func TestInitFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "todoctl")
	if err := InitFile(dir, "debug", "text"); err != nil {
		t.Fatalf("InitFile() error: %v", err)
	}

	slog.Debug("written to file", "screen", "todos")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("reading debug log: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("expected message in debug log, got %q", data)
	}
}

func TestInitFile_EmptyDirDiscards(t *testing.T) {
	if err := InitFile("", "debug", "text"); err != nil {
		t.Fatalf("InitFile() error: %v", err)
	}
	defer Init(os.Stderr, "warn", "text")

	slog.Debug("nowhere")
}
