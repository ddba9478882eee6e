package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandeepkv93/tutord/internal/config"
)

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerWithWriter(config.LogConfig{Level: "info", Format: "json"}, &buf)
	logger.Info("test message", slog.String("block_id", "b1"))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("JSON handler should produce valid JSON: %v", err)
	}
	if m["block_id"] != "b1" {
		t.Fatalf("expected block_id attribute, got %v", m)
	}
}

func TestNewLogger_TextFormatAddsSource(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerWithWriter(config.LogConfig{Level: "debug", Format: "text"}, &buf)
	logger.Debug("source test")

	if !strings.Contains(buf.String(), "source=") {
		t.Error("text format should include source information")
	}
}

func TestNewLogger_SetsDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerWithWriter(config.LogConfig{Level: "info", Format: "json"}, &buf)
	if slog.Default().Handler() != logger.Handler() {
		t.Error("NewLogger should set the returned logger as slog default")
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		wantSlog slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLevel(tt.level); got != tt.wantSlog {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.wantSlog)
			}
			logger := newLoggerWithWriter(config.LogConfig{Level: tt.level, Format: "json"}, &bytes.Buffer{})
			if !logger.Enabled(context.Background(), tt.wantSlog) {
				t.Errorf("logger should be enabled at %v", tt.wantSlog)
			}
		})
	}
}

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tutord.log")
	logger, closer, err := NewLogger(config.LogConfig{Level: "info", Format: "text", File: path})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("hello file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), "hello file") {
		t.Fatalf("log file missing entry: %s", raw)
	}
}
