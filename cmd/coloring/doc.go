// Package main hosts the coloring CLI entrypoint.
//
// A single Cobra command resolves configuration and tools, locks the
// workspace, ingests loose images, and hands the batch to the pipeline
// driver. The run ends with a summary table; per-file failures are reported
// there and in process.log but do not change the exit status.
package main
