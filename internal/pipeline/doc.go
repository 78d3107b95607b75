// Package pipeline drives every source image through clean, trace, and the
// two exports.
//
// Files are handled one at a time in name order. A stem whose four
// artifacts already exist is skipped unless Overwrite is set; otherwise all
// four are regenerated. A stage failure ends that file with a single error
// record and the batch continues. Run returns a Summary the CLI renders as a
// table.
package pipeline
