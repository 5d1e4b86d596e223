package vgraph

import (
	"log/slog"

	"github.com/gogpu/vgraph/internal/vlog"
)

// SetLogger configures the logger for vgraph and all its sub-packages.
// By default, vgraph produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by vgraph:
//   - [slog.LevelDebug]: internal diagnostics (schedule order, uniform writes)
//   - [slog.LevelInfo]: lifecycle events (resolution change, GPU device ready)
//   - [slog.LevelWarn]: recovered conditions (cycles, feedback hazards,
//     clamped parameter writes, fallback texture substitution)
func SetLogger(l *slog.Logger) {
	vlog.SetLogger(l)
}

// Logger returns the current logger used by vgraph.
// Sub-packages (render/, gpu/, signal/) share the same logger
// configuration without importing this package.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return vlog.Logger()
}
