package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevel(t *testing.T) {
	cases := map[int]slog.Level{0: slog.LevelInfo, 1: slog.LevelDebug, 3: slog.LevelDebug}
	for v, want := range cases {
		if got := Level(v); got != want {
			t.Errorf("Level(%d) = %v, want %v", v, got, want)
		}
	}
}

func TestSetup_Verbosity(t *testing.T) {
	var buf bytes.Buffer
	cleanup, err := Setup(Config{Out: &buf})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	L().Debug("hidden.event")
	L().Info("shown.event", "mode", "upload")
	if strings.Contains(buf.String(), "hidden.event") {
		t.Fatalf("debug record emitted at verbosity 0")
	}
	if !strings.Contains(buf.String(), "shown.event") || !strings.Contains(buf.String(), "mode=upload") {
		t.Fatalf("expected info record, got %q", buf.String())
	}
	if Enabled(slog.LevelDebug) {
		t.Fatalf("expected debug disabled")
	}
	_ = cleanup()

	buf.Reset()
	cleanup, err = Setup(Config{Out: &buf, Verbosity: 2})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer cleanup()

	L().Debug("debug.event")
	if !strings.Contains(buf.String(), "debug.event") || !strings.Contains(buf.String(), "source=") {
		t.Fatalf("expected debug record with source, got %q", buf.String())
	}
}

func TestCleanup_Discards(t *testing.T) {
	var buf bytes.Buffer
	cleanup, err := Setup(Config{Out: &buf})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	buf.Reset()

	L().Info("after.cleanup")
	if buf.Len() != 0 {
		t.Fatalf("expected discard after cleanup, got %q", buf.String())
	}
	if !InitTime().IsZero() {
		t.Fatalf("expected init time reset")
	}
}
