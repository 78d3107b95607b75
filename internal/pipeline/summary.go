package pipeline

import (
	"time"

	"coloring/internal/imaging"
)

// Outcome is the terminal state of one source file.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileResult describes what happened to one source file.
type FileResult struct {
	Name    string
	Stem    string
	Outcome Outcome
	// Mode is the resolved clean mode; ModeAuto when cleaning never ran.
	Mode     imaging.Mode
	Stage    string
	Duration time.Duration
	Err      error
	Warnings []string
}

// Summary collects per-file results for one run.
type Summary struct {
	Files    []FileResult
	Duration time.Duration
}

// Count returns how many files reached outcome.
func (s Summary) Count(outcome Outcome) int {
	n := 0
	for _, f := range s.Files {
		if f.Outcome == outcome {
			n++
		}
	}
	return n
}

// Empty reports whether the run found no input files.
func (s Summary) Empty() bool {
	return len(s.Files) == 0
}
