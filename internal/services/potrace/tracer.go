package potrace

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"coloring/internal/logging"
	"coloring/internal/services"
)

const stageName = "trace"

var commandContext = exec.CommandContext

// Settings holds potrace tuning values.
type Settings struct {
	// Turdsize suppresses speckles up to this many pixels.
	Turdsize int
	// Alphamax is the corner smoothing factor.
	Alphamax float64
	// OptTolerance is the curve simplification tolerance.
	OptTolerance float64
}

// Tracer defines the behaviour required by the pipeline driver.
type Tracer interface {
	Trace(ctx context.Context, src, dst string) error
}

// Option configures the CLI tracer.
type Option func(*CLI)

// WithLogger sets the logger used for command records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		c.logger = logging.NewComponentLogger(logger, stageName)
	}
}

// CLI streams a cleaned raster through ImageMagick into potrace.
type CLI struct {
	magick   string
	potrace  string
	settings Settings
	logger   *slog.Logger
}

// New constructs a tracer using the resolved ImageMagick and potrace binaries.
func New(magickBinary, potraceBinary string, settings Settings, opts ...Option) (*CLI, error) {
	magickBinary = strings.TrimSpace(magickBinary)
	potraceBinary = strings.TrimSpace(potraceBinary)
	if magickBinary == "" || potraceBinary == "" {
		return nil, errors.New("magick and potrace binaries required")
	}
	cli := &CLI{
		magick:   magickBinary,
		potrace:  potraceBinary,
		settings: settings,
		logger:   logging.NewComponentLogger(nil, stageName),
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// Trace converts src to a portable bitmap stream and pipes it into potrace,
// which writes an SVG to dst. Only potrace's exit status decides the result;
// the converter's status is advisory because an early-exiting reader
// legitimately breaks its pipe.
func (c *CLI) Trace(ctx context.Context, src, dst string) error {
	if strings.TrimSpace(src) == "" || strings.TrimSpace(dst) == "" {
		return services.Wrap(services.ErrValidation, stageName, "prepare", "source and destination required", nil)
	}
	logger := logging.WithContext(ctx, c.logger)

	upArgs := []string{src, "pnm:-"}
	downArgs := c.potraceArgs(dst)
	logger.Info("running command",
		logging.String(logging.FieldCommand,
			services.FormatCommand(c.magick, upArgs)+" | "+services.FormatCommand(c.potrace, downArgs)))

	reader, writer, err := os.Pipe()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, stageName, "pipe", "", err)
	}

	var upStderr, downStderr bytes.Buffer
	upstream := commandContext(ctx, c.magick, upArgs...) //nolint:gosec
	upstream.Stdout = writer
	upstream.Stderr = &upStderr

	downstream := commandContext(ctx, c.potrace, downArgs...) //nolint:gosec
	downstream.Stdin = reader
	downstream.Stderr = &downStderr

	if err := upstream.Start(); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return services.Wrap(services.ErrExternalTool, stageName, "magick", "start", err)
	}
	if err := downstream.Start(); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		_ = upstream.Wait()
		return services.Wrap(services.ErrExternalTool, stageName, "potrace", "start", err)
	}

	// The children hold their own copies; the parent's must go so EOF and
	// EPIPE reach them.
	_ = writer.Close()
	_ = reader.Close()

	downErr := downstream.Wait()
	upErr := upstream.Wait()

	if downErr != nil {
		if upErr != nil {
			logger.Debug("bitmap converter exited with error",
				logging.Error(services.ExitError(upErr, upStderr.Bytes())),
				logging.Bool("advisory", true),
			)
		}
		return services.Wrap(services.ErrExternalTool, stageName, "potrace", "", services.ExitError(downErr, downStderr.Bytes()))
	}
	if upErr != nil {
		logging.WarnWithContext(logger, "bitmap converter exited with error after a successful trace", "trace_upstream_exit",
			logging.Error(services.ExitError(upErr, upStderr.Bytes())),
			logging.String(logging.FieldImpact, "vector output kept; tracer exit status is authoritative"),
		)
	}
	return nil
}

func (c *CLI) potraceArgs(dst string) []string {
	return []string{
		"-s",
		"--turdsize", strconv.Itoa(c.settings.Turdsize),
		"--alphamax", formatFloat(c.settings.Alphamax),
		"--opttolerance", formatFloat(c.settings.OptTolerance),
		"-o", dst,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var _ Tracer = (*CLI)(nil)
