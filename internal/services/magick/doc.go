// Package magick wraps the ImageMagick CLI for the cleaning stage.
//
// Clean contrast-stretches a source raster, optionally negates it, and then
// either posterizes (color) or flattens alpha (bw) before binarizing at a
// fixed threshold. ModeAuto is resolved first with a saturation probe; a
// failed probe falls back to bw rather than failing the file. Tests inject an
// Executor to observe the exact argument lists without running ImageMagick.
package magick
