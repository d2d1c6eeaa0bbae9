package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger resets the logger to default state for test isolation
func resetLogger() {
	Init(Options{})
}

func TestInit_DefaultLevel_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Info("test info")
	if !strings.Contains(buf.String(), "test info") {
		t.Error("Info message should be logged at default level")
	}

	buf.Reset()

	Debug("test debug")
	if strings.Contains(buf.String(), "test debug") {
		t.Error("Debug message should not be logged at default level")
	}
}

func TestInit_DebugLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	Debug("detector matched", "detector", "jsonld")
	if !strings.Contains(buf.String(), "detector=jsonld") {
		t.Errorf("expected structured debug output, got %q", buf.String())
	}
	if !Enabled(slog.LevelDebug) {
		t.Error("Enabled(debug) should be true when Debug=true")
	}
}

func TestInit_QuietLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Quiet: true, Debug: true, Output: buf})
	defer resetLogger()

	Info("test info")
	Warn("test warn")
	if buf.Len() != 0 {
		t.Errorf("expected nothing below error level, got %q", buf.String())
	}

	Error("test error")
	if !strings.Contains(buf.String(), "test error") {
		t.Error("Error message should be logged when Quiet=true")
	}
}

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("recipe found", "method", "microdata")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "recipe found" || entry["method"] != "microdata" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestSetLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(buf, nil)))
	defer resetLogger()

	Warn("custom")
	if !strings.Contains(buf.String(), "custom") {
		t.Error("custom logger should receive messages")
	}
}

func TestWith_ReturnsLoggerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	With("url", "https://example.com").Info("scan")
	if !strings.Contains(buf.String(), "url=https://example.com") {
		t.Errorf("expected attribute in output, got %q", buf.String())
	}
}

func TestContextVariants(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	ctx := context.Background()
	DebugContext(ctx, "ctx debug")
	InfoContext(ctx, "ctx info")
	WarnContext(ctx, "ctx warn")
	ErrorContext(ctx, "ctx error")

	for _, msg := range []string{"ctx debug", "ctx info", "ctx warn", "ctx error"} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("expected %q in output", msg)
		}
	}
}
