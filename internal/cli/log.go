// Package cli implements the railroute command-line interface.
//
// The commands load a timetable (station and trip tables on disk, or a
// Postgres database), prepare the connection tables through planner.Runner
// and answer itinerary queries. Precomputed tables are cached in a file or
// Redis backend selected by the config.
//
// # Commands
//
//   - schedule: Print the complete timetable or one station's trains
//   - station: Look up a station name by ID or an ID by name
//   - route: Shortest itinerary, counting or ignoring layovers, or from a time
//   - path: Whether any or a direct connection exists
//   - graph: Export the time-expanded graph as DOT or SVG
//   - menu: Interactive numeric menu over the same queries
//   - serve: HTTP query API with a Prometheus metrics listener
//   - cache: Inspect or clear the precompute cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so long steps can report elapsed time.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of a step when it is done.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered graph (12ms)".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a copy of ctx carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
