// Package cli implements the gridtile command-line interface.
//
// The commands are:
//   - render: Render puzzle files to PNG, BMP or TIFF images
//   - preview: Inspect a puzzle's normalized grid in the terminal
//   - serve: Run the HTTP render server
//   - cache: Clear or locate the image cache
//   - config: Show or create the TOML config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// shows cache and render hook events. A render run tags its lines with a
// short run ID; server handlers log with their render ID attached, passed
// through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// newLogger returns a logger writing to w at level, with "15:04:05.00"
// timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// shortID is the first eight characters of a fresh UUID, enough to tell
// concurrent runs apart in a log.
func shortID() string {
	return uuid.NewString()[:8]
}

// runLogger tags every line of one render invocation with "run=<id>".
func runLogger(l *log.Logger) *log.Logger {
	return l.With("run", shortID())
}

// progress logs a completion line with the time elapsed since it was created.
// Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs e.g. "Rendered 12 puzzles (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
