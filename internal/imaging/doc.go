// Package imaging holds the closed vocabulary shared by the stage invokers:
// the clean mode and invert selectors, and the set of raster extensions the
// pipeline accepts as source images.
package imaging
