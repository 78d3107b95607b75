package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"coloring/internal/imaging"
)

//go:embed sample_config.toml
var sampleConfig string

// FileName is the per-workspace configuration file looked up in the root.
const FileName = "coloring.toml"

// Tools names the external executables resolved from PATH.
type Tools struct {
	Magick   string `toml:"magick"`
	Potrace  string `toml:"potrace"`
	Inkscape string `toml:"inkscape"`
}

// Clean controls the ImageMagick cleaning pass.
type Clean struct {
	// Mode is the default selector (auto, color, bw); --mode overrides it.
	Mode string `toml:"mode"`
	// Invert is the default negate selector (on, off); --invert overrides it.
	Invert string `toml:"invert"`
	// LevelLowPercent and LevelHighPercent are the -level black and white points.
	LevelLowPercent  int `toml:"level_low_percent"`
	LevelHighPercent int `toml:"level_high_percent"`
	// ThresholdPercent binarizes the grayscale image.
	ThresholdPercent int `toml:"threshold_percent"`
	// PosterizeColors is the palette size used by color mode before thresholding.
	PosterizeColors int `toml:"posterize_colors"`
	// SaturationThreshold is the mean HSL saturation above which auto picks color.
	SaturationThreshold float64 `toml:"saturation_threshold"`
}

// Trace controls potrace tuning.
type Trace struct {
	Turdsize     int     `toml:"turdsize"`
	Alphamax     float64 `toml:"alphamax"`
	OptTolerance float64 `toml:"opttolerance"`
}

// Export controls the Inkscape deliverables.
type Export struct {
	WidthPx int  `toml:"width_px"`
	Verify  bool `toml:"verify"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for a coloring run.
//
// Sections:
//   - Tools: executable names for ImageMagick, Potrace, and Inkscape
//   - Clean: levels, threshold, posterize, and auto-detect tuning
//   - Trace: potrace speckle, corner, and curve tolerances
//   - Export: raster width and post-export verification
//   - Logging: log format and level
//
// Stage directory names are fixed and intentionally absent.
type Config struct {
	Root    string  `toml:"-"`
	Tools   Tools   `toml:"tools"`
	Clean   Clean   `toml:"clean"`
	Trace   Trace   `toml:"trace"`
	Export  Export  `toml:"export"`
	Logging Logging `toml:"logging"`
}

// Load resolves the workspace root, then locates, parses, and validates a
// configuration file. An empty path looks for coloring.toml in the root and
// then ~/.config/coloring/config.toml. A missing file yields the defaults.
func Load(root, path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedRoot, err := resolveRoot(root)
	if err != nil {
		return nil, "", false, err
	}
	cfg.Root = resolvedRoot

	resolvedPath, exists, err := resolveConfigPath(resolvedRoot, path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		return wd, nil
	}
	return expandPath(root)
}

func resolveConfigPath(root, path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s not found", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	workspacePath := filepath.Join(root, FileName)
	if info, err := os.Stat(workspacePath); err == nil && !info.IsDir() {
		return workspacePath, true, nil
	}

	userPath, err := expandPath("~/.config/coloring/config.toml")
	if err != nil {
		return workspacePath, false, nil
	}
	if info, err := os.Stat(userPath); err == nil && !info.IsDir() {
		return userPath, true, nil
	}
	return workspacePath, false, nil
}

func (c *Config) normalize() {
	c.Tools.Magick = strings.TrimSpace(c.Tools.Magick)
	if c.Tools.Magick == "" {
		c.Tools.Magick = defaultMagickBinary
	}
	c.Tools.Potrace = strings.TrimSpace(c.Tools.Potrace)
	if c.Tools.Potrace == "" {
		c.Tools.Potrace = defaultPotraceBinary
	}
	c.Tools.Inkscape = strings.TrimSpace(c.Tools.Inkscape)
	if c.Tools.Inkscape == "" {
		c.Tools.Inkscape = defaultInkscapeBinary
	}

	c.Clean.Mode = strings.ToLower(strings.TrimSpace(c.Clean.Mode))
	if c.Clean.Mode == "" {
		c.Clean.Mode = defaultMode
	}
	c.Clean.Invert = strings.ToLower(strings.TrimSpace(c.Clean.Invert))
	if c.Clean.Invert == "" {
		c.Clean.Invert = defaultInvert
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if _, err := imaging.ParseMode(c.Clean.Mode); err != nil {
		return fmt.Errorf("clean.mode: %w", err)
	}
	if _, err := imaging.ParseInvert(c.Clean.Invert); err != nil {
		return fmt.Errorf("clean.invert: %w", err)
	}
	if !validPercent(c.Clean.LevelLowPercent) || !validPercent(c.Clean.LevelHighPercent) {
		return errors.New("clean.level_low_percent and clean.level_high_percent must be between 0 and 100")
	}
	if c.Clean.LevelLowPercent >= c.Clean.LevelHighPercent {
		return errors.New("clean.level_low_percent must be below clean.level_high_percent")
	}
	if !validPercent(c.Clean.ThresholdPercent) {
		return errors.New("clean.threshold_percent must be between 0 and 100")
	}
	if c.Clean.PosterizeColors < 2 {
		return errors.New("clean.posterize_colors must be at least 2")
	}
	if c.Clean.SaturationThreshold < 0 || c.Clean.SaturationThreshold > 1 {
		return errors.New("clean.saturation_threshold must be between 0 and 1")
	}
	if c.Trace.Turdsize < 0 {
		return errors.New("trace.turdsize must be non-negative")
	}
	if c.Trace.Alphamax < 0 {
		return errors.New("trace.alphamax must be non-negative")
	}
	if c.Trace.OptTolerance < 0 {
		return errors.New("trace.opttolerance must be non-negative")
	}
	if c.Export.WidthPx <= 0 {
		return errors.New("export.width_px must be positive")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func validPercent(v int) bool {
	return v >= 0 && v <= 100
}

// DefaultMode returns the configured clean mode.
func (c *Config) DefaultMode() imaging.Mode {
	mode, _ := imaging.ParseMode(c.Clean.Mode)
	return mode
}

// DefaultInvert returns the configured invert selector.
func (c *Config) DefaultInvert() imaging.Invert {
	invert, _ := imaging.ParseInvert(c.Clean.Invert)
	return invert
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ResolveRoot returns the absolute workspace root, defaulting to the
// working directory when root is empty.
func ResolveRoot(root string) (string, error) {
	return resolveRoot(root)
}

// SampleConfig returns the annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
// An existing file is never replaced.
func CreateSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
