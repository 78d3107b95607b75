package potrace

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"coloring/internal/services"
)

func TestTraceTracerStartFailureReapsConverter(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	missing := filepath.Join(t.TempDir(), "absent-potrace")

	var started []string
	prev := commandContext
	t.Cleanup(func() { commandContext = prev })
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		started = append(started, name)
		if name == "potrace" {
			return exec.CommandContext(ctx, missing)
		}
		// Writes until the pipe loses its last reader.
		return exec.CommandContext(ctx, "/bin/sh", "-c", "while :; do echo P1; done")
	}

	cli, err := New("magick", "potrace", Settings{Turdsize: 2, Alphamax: 1, OptTolerance: 0.2})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cli.Trace(ctx, "cat.png", filepath.Join(t.TempDir(), "cat.svg")) }()

	var traceErr error
	select {
	case traceErr = <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("Trace did not return after tracer start failure")
	}

	if !errors.Is(traceErr, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", traceErr)
	}
	if !strings.Contains(traceErr.Error(), "potrace: start") {
		t.Fatalf("expected tracer start failure, got %v", traceErr)
	}
	if ctx.Err() != nil {
		t.Fatal("converter was only stopped by the deadline; pipe ends were not released")
	}
	if len(started) != 2 || started[0] != "magick" || started[1] != "potrace" {
		t.Fatalf("unexpected command order %v", started)
	}
}
