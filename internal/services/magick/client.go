package magick

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"coloring/internal/imaging"
	"coloring/internal/logging"
	"coloring/internal/services"
)

const stageName = "clean"

// Settings holds the fixed transform parameters for the cleaning pass.
type Settings struct {
	LevelLowPercent     int
	LevelHighPercent    int
	ThresholdPercent    int
	PosterizeColors     int
	SaturationThreshold float64
}

// Cleaner defines the behaviour required by the pipeline driver.
type Cleaner interface {
	Clean(ctx context.Context, src, dst string, mode imaging.Mode, invert imaging.Invert) (imaging.Mode, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger sets the logger used for command and decision records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, stageName)
	}
}

// Client wraps ImageMagick CLI interactions.
type Client struct {
	binary   string
	settings Settings
	exec     services.Executor
	logger   *slog.Logger
}

// New constructs an ImageMagick client.
func New(binary string, settings Settings, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("magick binary required")
	}
	client := &Client{
		binary:   binary,
		settings: settings,
		exec:     services.CommandExecutor{},
		logger:   logging.NewComponentLogger(nil, stageName),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Saturation returns the mean HSL saturation of src in the 0.0-1.0 range.
func (c *Client) Saturation(ctx context.Context, src string) (float64, error) {
	args := []string{src, "-colorspace", "HSL", "-channel", "S", "-separate", "-format", "%[fx:mean]", "info:"}
	logging.WithContext(ctx, c.logger).Info("running command",
		logging.String(logging.FieldCommand, services.FormatCommand(c.binary, args)))

	out, err := c.exec.Run(ctx, c.binary, args)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, stageName, "saturation probe", "", err)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, stageName, "saturation probe", fmt.Sprintf("unparseable output %q", strings.TrimSpace(string(out))), err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, services.Wrap(services.ErrValidation, stageName, "saturation probe", fmt.Sprintf("non-finite output %q", strings.TrimSpace(string(out))), nil)
	}
	return value, nil
}

// ModeForSaturation maps a saturation measurement to a concrete mode. The
// threshold itself resolves to bw.
func ModeForSaturation(saturation, threshold float64) imaging.Mode {
	if saturation > threshold {
		return imaging.ModeColor
	}
	return imaging.ModeBW
}

// ResolveMode turns ModeAuto into a concrete mode by probing src. Probe
// failures fall back to bw with a warning instead of failing the file.
func (c *Client) ResolveMode(ctx context.Context, src string, mode imaging.Mode) imaging.Mode {
	logger := logging.WithContext(ctx, c.logger)
	if mode.Resolved() {
		logger.Info("using forced mode", logging.String("mode", mode.String()))
		return mode
	}

	saturation, err := c.Saturation(ctx, src)
	if err != nil {
		logging.WarnWithContext(logger, "could not auto-detect color, defaulting to bw", "saturation_probe",
			logging.Error(err),
			logging.String(logging.FieldImpact, "image is cleaned with the bw strategy"),
		)
		return imaging.ModeBW
	}

	resolved := ModeForSaturation(saturation, c.settings.SaturationThreshold)
	logger.Info("auto-detected mode",
		logging.String("mode", resolved.String()),
		logging.Float64("saturation", saturation),
		logging.Float64("threshold", c.settings.SaturationThreshold),
	)
	return resolved
}

// Clean writes a binarized copy of src to dst and returns the mode that was applied.
func (c *Client) Clean(ctx context.Context, src, dst string, mode imaging.Mode, invert imaging.Invert) (imaging.Mode, error) {
	if strings.TrimSpace(src) == "" || strings.TrimSpace(dst) == "" {
		return mode, services.Wrap(services.ErrValidation, stageName, "prepare", "source and destination required", nil)
	}
	resolved := c.ResolveMode(ctx, src, mode)
	logger := logging.WithContext(ctx, c.logger)
	if invert.Enabled() {
		logger.Info("applying invert")
	}

	args := c.cleanArgs(src, dst, resolved, invert)
	logger.Info("running command", logging.String(logging.FieldCommand, services.FormatCommand(c.binary, args)))
	if _, err := c.exec.Run(ctx, c.binary, args); err != nil {
		return resolved, services.Wrap(services.ErrExternalTool, stageName, "magick", "", err)
	}
	return resolved, nil
}

// cleanArgs builds the transform in its fixed order: levels, optional
// negate, then the mode-specific flatten and threshold.
func (c *Client) cleanArgs(src, dst string, mode imaging.Mode, invert imaging.Invert) []string {
	threshold := percent(c.settings.ThresholdPercent)
	args := []string{src, "-level", percent(c.settings.LevelLowPercent) + "," + percent(c.settings.LevelHighPercent)}
	if invert.Enabled() {
		args = append(args, "-negate")
	}
	if mode == imaging.ModeColor {
		args = append(args,
			"-dither", "None",
			"-colors", strconv.Itoa(c.settings.PosterizeColors),
			"-colorspace", "Gray",
			"-threshold", threshold,
		)
	} else {
		args = append(args,
			"-alpha", "remove",
			"-alpha", "off",
			"-colorspace", "Gray",
			"-threshold", threshold,
		)
	}
	return append(args, dst)
}

func percent(v int) string {
	return strconv.Itoa(v) + "%"
}

var _ Cleaner = (*Client)(nil)
