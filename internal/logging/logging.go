// Package logging builds the leveled charmbracelet/log logger shared by the
// data client, the view and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds logger settings, usually taken from config.
type Options struct {
	Level  string
	Format string
	File   string
	Prefix string
}

// ParseLevel parses a string log level. Unknown values map to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a formatter name. Unknown values map to text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "checklist"
	}
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.File != "",
		Prefix:          prefix,
	})
}

// Open returns a logger for opts.File, or for fallback when no file is set.
// The returned closer must be called when done.
func Open(opts Options, fallback io.Writer) (*log.Logger, io.Closer, error) {
	if opts.File == "" {
		return New(fallback, opts), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, opts), f, nil
}
