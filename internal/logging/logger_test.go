package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("recorded click", zap.Int("x", 10), zap.Int("y", 20))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected debug line to be filtered, got %d lines", len(lines))
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "recorded click" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if entry["x"] != float64(10) {
		t.Fatalf("expected x field, got %v", entry["x"])
	}
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	if _, err := New(Options{Level: "trace"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWarningIsAnAliasForWarn(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "Warning", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("expected only the warn line, got %q", out)
	}
}

func TestValidLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", " INFO "} {
		if !ValidLevel(level) {
			t.Errorf("expected %q to be valid", level)
		}
	}
	for _, level := range []string{"trace", "fatal", "verbose"} {
		if ValidLevel(level) {
			t.Errorf("expected %q to be rejected", level)
		}
	}
}

func TestOrDefault(t *testing.T) {
	if OrDefault(nil) != zap.L() {
		t.Fatalf("expected global logger for nil")
	}
	logger := zap.NewNop()
	if OrDefault(logger) != logger {
		t.Fatalf("expected the given logger back")
	}
}

func TestComponentTagsEntries(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	Component(zap.New(core), "playback").Info("autoclicker stopped")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["component"]; got != "playback" {
		t.Fatalf("expected component field, got %v", got)
	}
}
