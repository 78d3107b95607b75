package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"coloring/internal/imaging"
)

// Fixed directory and file names under the workspace root.
const (
	InputDir     = "input"
	CleanedDir   = "cleaned"
	VectorDir    = "vector"
	RasterDir    = "raster-output"
	DocumentDir  = "document-output"
	LogFileName  = "process.log"
	ReadmeName   = "README.md"
	LockFileName = ".coloring.lock"
)

// StageDirs lists the stage directories in pipeline order.
var StageDirs = []string{InputDir, CleanedDir, VectorDir, RasterDir, DocumentDir}

// Layout resolves every path the pipeline reads or writes.
type Layout struct {
	Root string
}

// New returns the layout for root.
func New(root string) Layout {
	return Layout{Root: filepath.Clean(root)}
}

func (l Layout) Dir(name string) string { return filepath.Join(l.Root, name) }

func (l Layout) InputDir() string    { return l.Dir(InputDir) }
func (l Layout) CleanedDir() string  { return l.Dir(CleanedDir) }
func (l Layout) VectorDir() string   { return l.Dir(VectorDir) }
func (l Layout) RasterDir() string   { return l.Dir(RasterDir) }
func (l Layout) DocumentDir() string { return l.Dir(DocumentDir) }
func (l Layout) LogPath() string     { return l.Dir(LogFileName) }
func (l Layout) LockPath() string    { return l.Dir(LockFileName) }

// Ensure creates the root and the five stage directories. Existing
// directories are left untouched.
func (l Layout) Ensure() error {
	if strings.TrimSpace(l.Root) == "" {
		return fmt.Errorf("workspace root not set")
	}
	for _, name := range StageDirs {
		if err := os.MkdirAll(l.Dir(name), 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", name, err)
		}
	}
	return nil
}

// Source is an image resident in input/.
type Source struct {
	Name string
	Stem string
	Path string
}

// Sources lists supported images in input/ sorted by file name.
func (l Layout) Sources() ([]Source, error) {
	entries, err := os.ReadDir(l.InputDir())
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	sources := make([]Source, 0, len(entries))
	for _, entry := range entries {
		if !imaging.IsSupported(entry.Name()) || !isRegularFile(l.InputDir(), entry) {
			continue
		}
		sources = append(sources, Source{
			Name: entry.Name(),
			Stem: imaging.Stem(entry.Name()),
			Path: filepath.Join(l.InputDir(), entry.Name()),
		})
	}
	return sources, nil
}

// isRegularFile reports whether entry is a regular file, following symlinks.
// Dangling links are not.
func isRegularFile(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

// Artifacts holds the four derived paths for one stem.
type Artifacts struct {
	Cleaned  string
	Vector   string
	Raster   string
	Document string
}

// Artifacts returns the derived paths for stem.
func (l Layout) Artifacts(stem string) Artifacts {
	return Artifacts{
		Cleaned:  filepath.Join(l.CleanedDir(), stem+".png"),
		Vector:   filepath.Join(l.VectorDir(), stem+".svg"),
		Raster:   filepath.Join(l.RasterDir(), stem+".png"),
		Document: filepath.Join(l.DocumentDir(), stem+".pdf"),
	}
}

// Paths returns the artifacts in pipeline order.
func (a Artifacts) Paths() []string {
	return []string{a.Cleaned, a.Vector, a.Raster, a.Document}
}

// Complete reports whether all four artifacts exist. Only existence is
// checked; modification times are ignored.
func (a Artifacts) Complete() bool {
	return len(a.Missing()) == 0
}

// Missing returns the artifacts that do not exist yet.
func (a Artifacts) Missing() []string {
	var missing []string
	for _, path := range a.Paths() {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	return missing
}
