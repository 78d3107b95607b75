package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coloring/internal/imaging"
	"coloring/internal/inspect"
	"coloring/internal/logging"
	"coloring/internal/services"
	"coloring/internal/services/inkscape"
	"coloring/internal/services/magick"
	"coloring/internal/services/potrace"
	"coloring/internal/workspace"
)

// Stage names used in log records and failure results.
const (
	StageClean          = "clean"
	StageTrace          = "trace"
	StageExportRaster   = "export-raster"
	StageExportDocument = "export-document"
)

// Options controls how the driver treats each file.
type Options struct {
	// Overwrite reprocesses stems whose four artifacts already exist.
	Overwrite bool
	Mode      imaging.Mode
	Invert    imaging.Invert
	// Verify inspects deliverables after export; mismatches only warn.
	Verify      bool
	ExportWidth int
}

// Driver sequences the stage invokers over every source in input/.
type Driver struct {
	layout   workspace.Layout
	cleaner  magick.Cleaner
	tracer   potrace.Tracer
	exporter inkscape.Exporter
	opts     Options
	logger   *slog.Logger
	now      func() time.Time
}

// New constructs a driver. A nil logger discards output.
func New(layout workspace.Layout, cleaner magick.Cleaner, tracer potrace.Tracer, exporter inkscape.Exporter, opts Options, logger *slog.Logger) (*Driver, error) {
	if cleaner == nil || tracer == nil || exporter == nil {
		return nil, errors.New("pipeline requires cleaner, tracer, and exporter")
	}
	return &Driver{
		layout:   layout,
		cleaner:  cleaner,
		tracer:   tracer,
		exporter: exporter,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		now:      time.Now,
	}, nil
}

// Run processes every source strictly in name order. A failing file is
// logged once and the batch moves on; only listing errors and cancellation
// end the run early.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	start := d.now()
	var summary Summary

	sources, err := d.layout.Sources()
	if err != nil {
		return summary, err
	}
	if len(sources) == 0 {
		logging.WarnWithContext(d.logger, "no images found in input", "empty_input",
			logging.String("input_dir", d.layout.InputDir()),
			logging.String("supported", strings.Join(imaging.SupportedExtensions(), " ")),
			logging.String(logging.FieldImpact, "nothing to process; drop images into the workspace root or input/"),
		)
		return summary, nil
	}

	d.logger.Info("starting batch",
		logging.Int("files", len(sources)),
		logging.Bool("overwrite", d.opts.Overwrite),
		logging.String("mode", d.opts.Mode.String()),
		logging.String("invert", d.opts.Invert.String()),
	)

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			summary.Duration = d.now().Sub(start)
			return summary, err
		}
		result := d.processFile(ctx, src)
		summary.Files = append(summary.Files, result)
		if ctx.Err() != nil {
			summary.Duration = d.now().Sub(start)
			return summary, ctx.Err()
		}
	}

	summary.Duration = d.now().Sub(start)
	d.logger.Info("batch finished",
		logging.Int("succeeded", summary.Count(OutcomeSucceeded)),
		logging.Int("skipped", summary.Count(OutcomeSkipped)),
		logging.Int("failed", summary.Count(OutcomeFailed)),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func (d *Driver) processFile(ctx context.Context, src workspace.Source) FileResult {
	ctx = logging.WithFile(ctx, src.Name)
	logger := logging.WithContext(ctx, d.logger)
	result := FileResult{Name: src.Name, Stem: src.Stem}
	artifacts := d.layout.Artifacts(src.Stem)

	if !d.opts.Overwrite && artifacts.Complete() {
		logger.Info("already processed, skipping")
		result.Outcome = OutcomeSkipped
		return result
	}

	start := d.now()
	logger.Info("processing file")
	d.logSourceDimensions(logger, src.Path)

	steps := []struct {
		stage string
		run   func(context.Context) error
	}{
		{StageClean, func(ctx context.Context) error {
			mode, err := d.cleaner.Clean(ctx, src.Path, artifacts.Cleaned, d.opts.Mode, d.opts.Invert)
			result.Mode = mode
			return err
		}},
		{StageTrace, func(ctx context.Context) error {
			return d.tracer.Trace(ctx, artifacts.Cleaned, artifacts.Vector)
		}},
		{StageExportRaster, func(ctx context.Context) error {
			return d.exporter.Export(ctx, artifacts.Vector, artifacts.Raster, inkscape.FormatRaster)
		}},
		{StageExportDocument, func(ctx context.Context) error {
			return d.exporter.Export(ctx, artifacts.Vector, artifacts.Document, inkscape.FormatDocument)
		}},
	}

	for _, step := range steps {
		stageCtx := logging.WithStage(ctx, step.stage)
		if err := step.run(stageCtx); err != nil {
			result.Duration = d.now().Sub(start)
			result.Outcome = OutcomeFailed
			result.Stage = step.stage
			if ctxErr := ctx.Err(); ctxErr != nil {
				result.Err = ctxErr
				logger.Info("interrupted", logging.String(logging.FieldStage, step.stage))
				return result
			}
			result.Err = fmt.Errorf("%s: %w", step.stage, err)
			logging.ErrorWithContext(logging.WithContext(stageCtx, d.logger), "stage failed", "stage_failed",
				logging.Error(err),
				logging.String("error_kind", services.Classify(err)),
				logging.String(logging.FieldImpact, "remaining stages for this file skipped"),
			)
			return result
		}
	}

	if d.opts.Verify {
		result.Warnings = d.verify(logger, artifacts)
	}

	result.Duration = d.now().Sub(start)
	result.Outcome = OutcomeSucceeded
	logger.Info("finished file",
		logging.String("mode", result.Mode.String()),
		logging.Duration("duration", result.Duration),
	)
	return result
}

func (d *Driver) logSourceDimensions(logger *slog.Logger, path string) {
	dims, err := inspect.ImageDimensions(path)
	if err != nil {
		logger.Debug("source dimensions unavailable", logging.Error(err))
		return
	}
	logger.Info("source image",
		logging.Int("width", dims.Width),
		logging.Int("height", dims.Height),
		logging.String("format", dims.Format),
	)
}

func (d *Driver) verify(logger *slog.Logger, artifacts workspace.Artifacts) []string {
	var warnings []string
	if _, err := inspect.VerifyRaster(artifacts.Raster, d.opts.ExportWidth); err != nil {
		logging.WarnWithContext(logger, "raster deliverable failed verification", "verify_raster",
			logging.Error(err),
			logging.String(logging.FieldImpact, "file kept; inspect the PNG manually"),
		)
		warnings = append(warnings, err.Error())
	}
	if _, err := inspect.VerifyDocument(artifacts.Document); err != nil {
		logging.WarnWithContext(logger, "document deliverable failed verification", "verify_document",
			logging.Error(err),
			logging.String(logging.FieldImpact, "file kept; inspect the PDF manually"),
		)
		warnings = append(warnings, err.Error())
	}
	return warnings
}
