package inkscape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"coloring/internal/logging"
	"coloring/internal/services"
)

const stageName = "export"

// Format identifies the deliverable Inkscape renders.
type Format int

const (
	// FormatRaster renders a PNG scaled to the configured width.
	FormatRaster Format = iota
	// FormatDocument renders a vector PDF.
	FormatDocument
)

func (f Format) String() string {
	switch f {
	case FormatRaster:
		return "raster"
	case FormatDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Exporter defines the behaviour required by the pipeline driver.
type Exporter interface {
	Export(ctx context.Context, src, dst string, format Format) error
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

// WithLogger sets the logger used for command records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, stageName)
	}
}

// Client wraps Inkscape CLI exports.
type Client struct {
	binary  string
	widthPx int
	exec    services.Executor
	logger  *slog.Logger
}

// New constructs an Inkscape client rendering rasters at widthPx.
func New(binary string, widthPx int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("inkscape binary required")
	}
	if widthPx <= 0 {
		return nil, fmt.Errorf("export width must be positive, got %d", widthPx)
	}
	client := &Client{
		binary:  binary,
		widthPx: widthPx,
		exec:    services.CommandExecutor{},
		logger:  logging.NewComponentLogger(nil, stageName),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Export renders src into dst using the requested format.
func (c *Client) Export(ctx context.Context, src, dst string, format Format) error {
	if strings.TrimSpace(src) == "" || strings.TrimSpace(dst) == "" {
		return services.Wrap(services.ErrValidation, stageName, format.String(), "source and destination required", nil)
	}
	args, err := c.exportArgs(src, dst, format)
	if err != nil {
		return err
	}
	logging.WithContext(ctx, c.logger).Info("running command",
		logging.String("format", format.String()),
		logging.String(logging.FieldCommand, services.FormatCommand(c.binary, args)),
	)
	if _, err := c.exec.Run(ctx, c.binary, args); err != nil {
		return services.Wrap(services.ErrExternalTool, stageName, format.String(), "", err)
	}
	return nil
}

func (c *Client) exportArgs(src, dst string, format Format) ([]string, error) {
	switch format {
	case FormatRaster:
		return []string{
			src,
			"--export-width=" + strconv.Itoa(c.widthPx),
			"--export-type=png",
			"--export-area-drawing",
			"--export-filename=" + dst,
		}, nil
	case FormatDocument:
		return []string{
			src,
			"--export-type=pdf",
			"--export-area-drawing",
			"--export-filename=" + dst,
		}, nil
	default:
		return nil, services.Wrap(services.ErrValidation, stageName, "prepare", fmt.Sprintf("unsupported format %d", int(format)), nil)
	}
}

var _ Exporter = (*Client)(nil)
