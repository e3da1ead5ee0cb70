package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a text slog.Logger on stdout at the given level ("debug", "info", "warn", "error").
// Unknown levels fall back to info.
func New(level string) *slog.Logger {
	return NewWriter(os.Stdout, level)
}

func NewWriter(w io.Writer, level string) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(h)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
