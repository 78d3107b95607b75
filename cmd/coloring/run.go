package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"coloring/internal/config"
	"coloring/internal/logging"
	"coloring/internal/pipeline"
	"coloring/internal/preflight"
	"coloring/internal/services/inkscape"
	"coloring/internal/services/magick"
	"coloring/internal/services/potrace"
	"coloring/internal/workspace"
)

func runPipeline(ctx context.Context, cmd *cobra.Command, flags *runFlags) error {
	cfg, cfgPath, cfgFound, err := config.Load(flags.root, flags.configPath)
	if err != nil {
		return err
	}
	if level := strings.TrimSpace(flags.logLevel); level != "" {
		cfg.Logging.Level = level
	}

	mode := cfg.DefaultMode()
	if cmd.Flags().Changed("mode") {
		mode = flags.mode
	}
	invert := cfg.DefaultInvert()
	if cmd.Flags().Changed("invert") {
		invert = flags.invert
	}

	// Nothing on disk is touched until every tool resolves.
	tools, err := preflight.LocateTools(cfg)
	if err != nil {
		return err
	}

	layout := workspace.New(cfg.Root)
	if err := os.MkdirAll(layout.Root, 0o755); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	if err := preflight.Failures(preflight.RunAll(cfg)); err != nil {
		return fmt.Errorf("preflight: %w", err)
	}

	lock, err := layout.Lock()
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	logOpts := logging.RunOptions(cfg.Logging.Level, cfg.Logging.Format, layout.LogPath())
	logOpts.Stdout = cmd.OutOrStdout()
	baseLogger, closer, err := logging.New(logOpts)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()
	logger := baseLogger.With(logging.String(logging.FieldRunID, uuid.NewString()))

	logger.Info("coloring run started",
		logging.String("root", layout.Root),
		logging.String("config", configLabel(cfgPath, cfgFound)),
		logging.String("mode", mode.String()),
		logging.String("invert", invert.String()),
		logging.Bool("overwrite", flags.overwrite),
	)
	for _, name := range []string{preflight.ToolMagick, preflight.ToolPotrace, preflight.ToolInkscape} {
		logger.Debug("resolved tool", logging.String("tool", name), logging.String("path", tools[name]))
	}

	if err := layout.Ensure(); err != nil {
		logging.ErrorWithContext(logger, "could not create stage directories", "workspace_setup", logging.Error(err))
		return err
	}
	if _, err := layout.Ingest(logger, executableName()); err != nil {
		logging.ErrorWithContext(logger, "could not scan workspace root", "workspace_setup", logging.Error(err))
		return err
	}

	driver, err := newDriver(cfg, tools, layout, pipeline.Options{
		Overwrite:   flags.overwrite,
		Mode:        mode,
		Invert:      invert,
		Verify:      cfg.Export.Verify,
		ExportWidth: cfg.Export.WidthPx,
	}, logger)
	if err != nil {
		return err
	}

	summary, runErr := driver.Run(ctx)
	if !summary.Empty() {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary, shouldColorize(cmd.OutOrStdout())))
	}
	if runErr != nil {
		if ctx.Err() != nil {
			logging.WarnWithContext(logger, "run interrupted; remaining files not processed", "run_interrupted",
				logging.String(logging.FieldImpact, "rerun to finish the batch"),
			)
		} else {
			logging.ErrorWithContext(logger, "run aborted", "run_aborted", logging.Error(runErr))
		}
		return runErr
	}
	return nil
}

func newDriver(cfg *config.Config, tools map[string]string, layout workspace.Layout, opts pipeline.Options, logger *slog.Logger) (*pipeline.Driver, error) {
	cleaner, err := magick.New(tools[preflight.ToolMagick], magick.Settings{
		LevelLowPercent:     cfg.Clean.LevelLowPercent,
		LevelHighPercent:    cfg.Clean.LevelHighPercent,
		ThresholdPercent:    cfg.Clean.ThresholdPercent,
		PosterizeColors:     cfg.Clean.PosterizeColors,
		SaturationThreshold: cfg.Clean.SaturationThreshold,
	}, magick.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	tracer, err := potrace.New(tools[preflight.ToolMagick], tools[preflight.ToolPotrace], potrace.Settings{
		Turdsize:     cfg.Trace.Turdsize,
		Alphamax:     cfg.Trace.Alphamax,
		OptTolerance: cfg.Trace.OptTolerance,
	}, potrace.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	exporter, err := inkscape.New(tools[preflight.ToolInkscape], cfg.Export.WidthPx, inkscape.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return pipeline.New(layout, cleaner, tracer, exporter, opts, logger)
}

func configLabel(path string, found bool) string {
	if !found {
		return "defaults"
	}
	return path
}

func executableName() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Base(exe)
}
