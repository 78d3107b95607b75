// Package services defines shared utilities consumed by the stage invokers
// that wrap ImageMagick, Potrace, and Inkscape.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so per-file failures carry
//     the stage and operation that produced them.
//   - A thin Executor abstraction that makes external command execution
//     testable, and a formatter for logging the exact command line invoked.
//
// Stage packages live in subdirectories and depend only on this package and
// internal/logging.
package services
