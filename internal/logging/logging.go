// Package logging configures the process-wide slog logger.
//
// Text output is colored with tint; JSON output is meant for log shippers.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options selects the level and format of the default logger.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// Setup builds a logger from opts and installs it as the slog default.
func Setup(opts Options) *slog.Logger {
	l := New(opts)
	slog.SetDefault(l)
	return l
}

// New builds a logger from opts without touching the default.
func New(opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)
	if strings.EqualFold(opts.Format, "json") {
		return slog.New(slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(opts.Output, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    strings.EqualFold(opts.Format, "plain"),
	}))
}

// ParseLevel maps debug, info, warn and error; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
