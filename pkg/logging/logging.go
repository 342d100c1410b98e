package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Options selects the handler built by New.
type Options struct {
	Level slog.Level
	JSON  bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger writing text or JSON records to opts.Output.
// Durations are written in milliseconds so request logs read the same in
// both formats.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	hopts := &slog.HandlerOptions{
		Level:       opts.Level,
		ReplaceAttr: durationMillis,
	}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(out, hopts))
	}
	return slog.New(slog.NewTextHandler(out, hopts))
}

// FromStrings builds a logger from the level and format values used by
// flags and surveyd.yaml. Unknown values fall back to info and text.
func FromStrings(level, format string, out io.Writer) *slog.Logger {
	return New(Options{
		Level:  ParseLevel(level),
		JSON:   IsJSON(format),
		Output: out,
	})
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Component tags logger with a component name. A nil logger yields Nop.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		return Nop()
	}
	return logger.With("component", name)
}

// ParseLevel maps debug, info, warn (or warning) and error to a slog
// level, ignoring case. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// IsJSON reports whether format names the JSON handler.
func IsJSON(format string) bool {
	return strings.EqualFold(strings.TrimSpace(format), "json")
}

func durationMillis(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindDuration {
		ms := float64(a.Value.Duration()) / float64(time.Millisecond)
		return slog.Float64(a.Key+"Ms", ms)
	}
	return a
}
