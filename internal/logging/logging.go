// Package logging wraps log/slog construction, giving the simulation
// one place that decides output format and level, with contextual
// fields bound per call site (agent id, tick) rather than reconstructed
// ad hoc at each log call (see DESIGN.md for the library choice).
package logging

import (
	"log/slog"
	"os"
)

// New builds the process-wide logger, text-handler to stderr at the
// given level.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// ForAgent returns a logger with the agent id bound as a field.
func ForAgent(base *slog.Logger, agentID int) *slog.Logger {
	return base.With("agent", agentID)
}

// ForTick returns a logger with the current tick bound as a field.
func ForTick(base *slog.Logger, tick int) *slog.Logger {
	return base.With("tick", tick)
}
