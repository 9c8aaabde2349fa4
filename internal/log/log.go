package log

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// DefaultLevel is used when the configured level is empty or unknown.
const DefaultLevel = hclog.Info

// Options configures the root logger.
type Options struct {
	Name   string
	Level  string
	JSON   bool
	Output io.Writer
}

// New builds the root logger. Components derive their own loggers from it
// with Named.
func New(name, level string, json bool) hclog.Logger {
	return NewWithOptions(Options{Name: name, Level: level, JSON: json})
}

// NewWithOptions builds a logger from opts, writing to stderr by default.
func NewWithOptions(opts Options) hclog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       opts.Name,
		Level:      ParseLevel(opts.Level),
		Output:     output,
		JSONFormat: opts.JSON,
	})
}

// ParseLevel maps a level name to an hclog level, falling back to
// DefaultLevel for anything hclog does not recognise.
func ParseLevel(level string) hclog.Level {
	parsed := hclog.LevelFromString(strings.TrimSpace(level))
	if parsed == hclog.NoLevel {
		return DefaultLevel
	}
	return parsed
}

// OrNull returns logger, or a logger that discards everything when nil.
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
