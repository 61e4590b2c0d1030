// Package logging builds the structured loggers shared by the simulation
// core, the driver and the CLI.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const Prefix = "gravity"

var formatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// New returns a logger writing to w at the named level ("debug", "info",
// "warn", "error") in the named format ("text", "json" or "logfmt").
func New(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	f, ok := formatters[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("log format %q: want text, json or logfmt", format)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           lvl,
		Formatter:       f,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
