package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var (
	lookPath = exec.LookPath
	goos     = runtime.GOOS
)

// ErrMissingTool marks a run that cannot start because a required tool is absent.
var ErrMissingTool = errors.New("required tool missing")

// Requirement defines an external program the pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := lookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// Locate resolves every requirement and returns their absolute paths keyed
// by Name. Any missing non-optional requirement fails the whole lookup; the
// error lists each absent tool.
func Locate(requirements []Requirement) (map[string]string, error) {
	statuses := CheckBinaries(requirements)
	resolved := make(map[string]string, len(statuses))
	var missing []string
	for _, status := range statuses {
		if status.Available {
			resolved[status.Name] = status.Path
			continue
		}
		if status.Optional {
			continue
		}
		missing = append(missing, missingMessage(status))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingTool, strings.Join(missing, "; "))
	}
	return resolved, nil
}

func missingMessage(status Status) string {
	msg := fmt.Sprintf("%s (%s) not found on PATH", status.Name, status.Command)
	if status.Description != "" {
		msg += ", needed to " + status.Description
	}
	if goos == "windows" {
		msg += fmt.Sprintf("; add the folder containing %s.exe to the system PATH", strings.TrimSuffix(status.Command, ".exe"))
	}
	return msg
}
