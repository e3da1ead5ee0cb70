package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "warn")

	log.Info("hidden")
	log.Warn("shown", slog.Int("live", 3))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "live=3") {
		t.Fatalf("expected warn line with attrs, got %q", out)
	}
}
