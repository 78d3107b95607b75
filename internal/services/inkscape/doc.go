// Package inkscape renders traced SVGs into the PNG and PDF deliverables.
package inkscape
