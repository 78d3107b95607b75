package config

const (
	defaultMagickBinary   = "magick"
	defaultPotraceBinary  = "potrace"
	defaultInkscapeBinary = "inkscape"
	defaultMode           = "auto"
	defaultInvert         = "off"
	// 0%,80% stretches the middle so muddy blacks become black.
	defaultLevelLowPercent  = 0
	defaultLevelHighPercent = 80
	defaultThresholdPercent = 65
	// 8 colors yields chunky comic-style regions.
	defaultPosterizeColors     = 8
	defaultSaturationThreshold = 0.05
	defaultTurdsize            = 5
	defaultAlphamax            = 1.0
	defaultOptTolerance        = 0.5
	// 3000px suits 8.5x11in prints.
	defaultExportWidthPx = 3000
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			Magick:   defaultMagickBinary,
			Potrace:  defaultPotraceBinary,
			Inkscape: defaultInkscapeBinary,
		},
		Clean: Clean{
			Mode:                defaultMode,
			Invert:              defaultInvert,
			LevelLowPercent:     defaultLevelLowPercent,
			LevelHighPercent:    defaultLevelHighPercent,
			ThresholdPercent:    defaultThresholdPercent,
			PosterizeColors:     defaultPosterizeColors,
			SaturationThreshold: defaultSaturationThreshold,
		},
		Trace: Trace{
			Turdsize:     defaultTurdsize,
			Alphamax:     defaultAlphamax,
			OptTolerance: defaultOptTolerance,
		},
		Export: Export{
			WidthPx: defaultExportWidthPx,
			Verify:  true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
