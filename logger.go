package harmonize

import (
	"log/slog"

	"github.com/gogpu/harmonize/internal/obslog"
)

// SetLogger configures the logger used by harmonize and its internal
// packages. By default, harmonize produces no log output. Call SetLogger to
// enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by harmonize:
//   - [slog.LevelInfo]: one palette extraction summary per Analyze call
//     (k, pixels sampled, elapsed)
//
// No Debug or Warn records are emitted: per-block DBSCAN stats, adaptive
// epsilon estimates, and degenerate-data fallbacks are not logged.
//
// Example:
//
//	// Enable info-level logging to stderr:
//	harmonize.SetLogger(slog.Default())
func SetLogger(l *slog.Logger) {
	obslog.Set(l)
}

// Logger returns the current logger used by harmonize.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return obslog.Get()
}
