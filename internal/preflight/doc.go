// Package preflight provides readiness checks that run before any source
// file is touched.
//
// LocateTools resolves ImageMagick, potrace, and Inkscape from PATH and
// fails the run when one is missing. RunAll verifies the workspace root is
// a directory the current user can read, write, and traverse.
package preflight
