package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"coloring/internal/fileutil"
	"coloring/internal/imaging"
	"coloring/internal/logging"
)

// IngestResult records what Ingest did with each loose image.
type IngestResult struct {
	Moved   []string
	Kept    []string
	Failed  []string
	Ignored []string
}

// Ingest moves supported images sitting directly in the root into input/.
// README.md and any names in exclude are never touched. A loose file whose
// name already exists in input/ stays where it is and a notice is logged.
// A failed move is logged and does not stop the remaining files.
func (l Layout) Ingest(logger *slog.Logger, exclude ...string) (IngestResult, error) {
	logger = logging.NewComponentLogger(logger, "workspace")
	skip := map[string]struct{}{ReadmeName: {}}
	for _, name := range exclude {
		if name != "" {
			skip[name] = struct{}{}
		}
	}

	entries, err := os.ReadDir(l.Root)
	if err != nil {
		return IngestResult{}, fmt.Errorf("read workspace root: %w", err)
	}

	var result IngestResult
	for _, entry := range entries {
		name := entry.Name()
		if !imaging.IsSupported(name) {
			continue
		}
		if !isRegularFile(l.Root, entry) {
			logger.Debug("skipping entry that is not a regular file",
				logging.String(logging.FieldFile, name),
			)
			continue
		}
		if _, excluded := skip[name]; excluded {
			result.Ignored = append(result.Ignored, name)
			continue
		}

		src := filepath.Join(l.Root, name)
		dst := filepath.Join(l.InputDir(), name)
		if _, err := os.Lstat(dst); err == nil {
			logger.Info("input already holds a file with this name; leaving loose copy in place",
				logging.String(logging.FieldFile, name),
				logging.String(logging.FieldEventType, "ingest_conflict"),
			)
			result.Kept = append(result.Kept, name)
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			logging.ErrorWithContext(logger, "could not inspect input directory", "ingest_failed",
				logging.String(logging.FieldErrorHint, "check permissions on the input directory"),
				logging.String(logging.FieldFile, name),
				logging.Error(err),
			)
			result.Failed = append(result.Failed, name)
			continue
		}

		if err := fileutil.MoveFile(src, dst); err != nil {
			logging.ErrorWithContext(logger, "could not move image into input", "ingest_failed",
				logging.String(logging.FieldErrorHint, "move the file into input/ manually"),
				logging.String(logging.FieldFile, name),
				logging.Error(err),
			)
			result.Failed = append(result.Failed, name)
			continue
		}
		logger.Info("moved image into input", logging.String(logging.FieldFile, name))
		result.Moved = append(result.Moved, name)
	}
	return result, nil
}
