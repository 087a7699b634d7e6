// Package logging assembles structured slog loggers and formatting helpers used
// across ytq.
//
// It owns the console and JSON handlers, maps configured levels onto slog, and
// exposes context-aware helpers so every line emitted during one CLI invocation
// carries the same invocation ID. A no-op logger is provided for tests and
// wiring code that cannot fail.
//
// Log output goes to stderr by default so command output on stdout stays
// machine-readable.
package logging
