// Package inspect reads image headers and PDF structure so a run can log
// source dimensions and sanity-check the exported deliverables.
package inspect
