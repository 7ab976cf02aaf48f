package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	namedLogger.Info(context.Background(), "test message")
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug).With(String("run_id", "abc"))

	l.Warn(context.Background(), "source failed", String("source", "api"), Error(errors.New("boom")))

	out := buf.String()
	for _, want := range []string{"run_id=abc", "level=WARN", "boom", `msg="source failed"`} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn)

	l.Info(context.Background(), "hidden")
	l.Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	l.Error(context.Background(), "shown")
	if buf.Len() == 0 {
		t.Fatal("expected error record")
	}
}

func TestSetLevelString(t *testing.T) {
	for _, lvl := range []string{"debug", "INFO", "warning", "error", ""} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("SetLevelString(%q) returned %v", lvl, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	_ = SetLevelString("info")
}

func TestLoggerCallerDoesNotShadowFields(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo).Info(context.Background(), "fetched", String("source", "scrape"))

	out := buf.String()
	if !strings.Contains(out, "caller=") {
		t.Errorf("output %q missing caller location", out)
	}
	if n := strings.Count(out, "source="); n != 1 {
		t.Errorf("output %q has %d source attributes, want 1", out, n)
	}
	if !strings.Contains(out, "source=scrape") {
		t.Errorf("output %q lost the source field", out)
	}
}
