// Package logging assembles the structured slog logger used for a single
// coloring run.
//
// It owns the console and JSON handlers, routes output to stdout and the
// workspace run log at the same time, and exposes context helpers so stage
// code can tag log lines with the file and stage being processed. A no-op
// logger is provided for tests and wiring code that cannot fail.
//
// Build loggers through New so every component emits records with the same
// shape; the run log is append-only and is never rotated within a run.
package logging
