package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/alnah/go-mathdoc/internal/config"
)

// newLogger builds the CLI logger. --verbose forces debug and --quiet forces
// error, overriding the configured level.
func newLogger(w io.Writer, cfg config.LogConfig, verbose, quiet bool) *slog.Logger {
	level := parseLevel(cfg.Level)
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// parseLevel maps a config level name to a slog level. Unknown names mean warn.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
