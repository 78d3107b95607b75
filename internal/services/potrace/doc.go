// Package potrace runs the tracing stage: ImageMagick streams a cleaned
// raster as a portable bitmap into potrace, which writes an SVG.
//
// The two processes are connected by an OS pipe so the bitmap never touches
// disk. Trace waits for both children; potrace's exit status decides the
// outcome and the converter's status is logged only.
package potrace
