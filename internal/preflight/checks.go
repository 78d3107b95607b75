package preflight

import (
	"fmt"
	"os"

	"coloring/internal/config"
	"coloring/internal/deps"
)

// Keys of the map returned by LocateTools.
const (
	ToolMagick   = "magick"
	ToolPotrace  = "potrace"
	ToolInkscape = "inkscape"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkAccess(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// ToolRequirements lists the three pipeline programs named by cfg.
func ToolRequirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        ToolMagick,
			Command:     cfg.Tools.Magick,
			Description: "clean rasters and feed the tracer",
		},
		{
			Name:        ToolPotrace,
			Command:     cfg.Tools.Potrace,
			Description: "trace bitmaps into SVG",
		},
		{
			Name:        ToolInkscape,
			Command:     cfg.Tools.Inkscape,
			Description: "export PNG and PDF deliverables",
		},
	}
}

// LocateTools resolves the pipeline programs, failing if any is missing.
func LocateTools(cfg *config.Config) (map[string]string, error) {
	return deps.Locate(ToolRequirements(cfg))
}
