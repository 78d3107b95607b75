// Package workspace owns the on-disk layout of a coloring run.
//
// A workspace root holds five fixed stage directories (input, cleaned,
// vector, raster-output, document-output), the append-only process.log, and
// an optional README.md. Ensure bootstraps the directories, Ingest relocates
// loose images into input/, and Artifacts answers whether a stem has been
// fully processed. Lock guards the root against concurrent runs.
package workspace
