package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"coloring/internal/pipeline"
)

const maxDetailWidth = 60

var titleCaser = cases.Title(language.English)

func renderSummary(summary pipeline.Summary, colorize bool) string {
	headers := []string{"File", "Status", "Mode", "Duration", "Detail"}
	rows := make([][]string, 0, len(summary.Files))
	for _, f := range summary.Files {
		rows = append(rows, []string{
			f.Name,
			statusLabel(f.Outcome, colorize),
			modeLabel(f),
			durationLabel(f),
			detailLabel(f),
		})
	}
	footer := []string{
		"Total",
		fmt.Sprintf("%d ok / %d skipped / %d failed",
			summary.Count(pipeline.OutcomeSucceeded),
			summary.Count(pipeline.OutcomeSkipped),
			summary.Count(pipeline.OutcomeFailed)),
		"",
		summary.Duration.Round(time.Millisecond).String(),
		"",
	}
	return renderTable(headers, rows, footer, []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft})
}

func statusLabel(outcome pipeline.Outcome, colorize bool) string {
	label := titleCaser.String(outcome.String())
	if !colorize {
		return label
	}
	switch outcome {
	case pipeline.OutcomeSucceeded:
		return text.FgGreen.Sprint(label)
	case pipeline.OutcomeSkipped:
		return text.FgBlue.Sprint(label)
	case pipeline.OutcomeFailed:
		return text.FgRed.Sprint(label)
	default:
		return label
	}
}

func modeLabel(f pipeline.FileResult) string {
	if !f.Mode.Resolved() {
		return "-"
	}
	return f.Mode.String()
}

func durationLabel(f pipeline.FileResult) string {
	if f.Outcome == pipeline.OutcomeSkipped {
		return "-"
	}
	return f.Duration.Round(time.Millisecond).String()
}

func detailLabel(f pipeline.FileResult) string {
	switch {
	case f.Err != nil:
		return truncate(f.Err.Error(), maxDetailWidth)
	case f.Outcome == pipeline.OutcomeSkipped:
		return "already processed"
	case len(f.Warnings) > 0:
		return fmt.Sprintf("%d verification warning(s)", len(f.Warnings))
	default:
		return ""
	}
}

func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
