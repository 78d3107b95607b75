package potrace_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"coloring/internal/services"
	"coloring/internal/services/potrace"
	"coloring/internal/testsupport"
)

const potraceOutArg = `out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; shift; fi
  shift
done
`

func defaultSettings() potrace.Settings {
	return potrace.Settings{Turdsize: 5, Alphamax: 1, OptTolerance: 0.5}
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

func newTracer(t *testing.T, magickBody, potraceBody string) (*potrace.CLI, string) {
	t.Helper()
	requireShell(t)
	dir := t.TempDir()
	magick := testsupport.WriteScript(t, dir, "magick", magickBody)
	tracer := testsupport.WriteScript(t, dir, "potrace", potraceBody)
	cli, err := potrace.New(magick, tracer, defaultSettings())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return cli, dir
}

func traceWithTimeout(t *testing.T, cli *potrace.CLI, src, dst string) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cli.Trace(ctx, src, dst) }()
	select {
	case err := <-done:
		return err
	case <-time.After(30 * time.Second):
		t.Fatal("Trace did not return; pipeline deadlocked")
		return nil
	}
}

func TestNewRequiresBothBinaries(t *testing.T) {
	if _, err := potrace.New("magick", "", defaultSettings()); err == nil {
		t.Fatal("expected error when potrace binary missing")
	}
	if _, err := potrace.New(" ", "potrace", defaultSettings()); err == nil {
		t.Fatal("expected error when magick binary missing")
	}
}

func TestTraceStreamsBitmapIntoTracer(t *testing.T) {
	cli, dir := newTracer(t,
		"printf 'P1\\n1 1\\n1\\n'\n",
		"printf '%s\\n' \"$@\" > \"$(dirname \"$0\")/args.txt\"\n"+potraceOutArg+"cat > \"$out\"\n",
	)
	dst := filepath.Join(dir, "cat.svg")

	if err := traceWithTimeout(t, cli, filepath.Join(dir, "cat.png"), dst); err != nil {
		t.Fatalf("Trace returned error: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "P1") {
		t.Fatalf("expected tracer to receive the bitmap stream, got %q", data)
	}

	rawArgs, err := os.ReadFile(filepath.Join(dir, "args.txt"))
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	got := strings.Fields(string(rawArgs))
	want := []string{"-s", "--turdsize", "5", "--alphamax", "1", "--opttolerance", "0.5", "-o", dst}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected potrace args: got %v want %v", got, want)
	}
}

func TestTraceHandlesLargeStreams(t *testing.T) {
	cli, dir := newTracer(t,
		"head -c 1048576 /dev/zero\n",
		potraceOutArg+"cat > \"$out\"\n",
	)
	dst := filepath.Join(dir, "big.svg")
	if err := traceWithTimeout(t, cli, "in.png", dst); err != nil {
		t.Fatalf("Trace returned error: %v", err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() != 1048576 {
		t.Fatalf("expected full stream to arrive, got %d bytes", info.Size())
	}
}

func TestTraceIgnoresUpstreamFailureWhenTracerSucceeds(t *testing.T) {
	cli, dir := newTracer(t,
		"head -c 16777216 /dev/zero\n",
		potraceOutArg+"printf '<svg/>' > \"$out\"\nexit 0\n",
	)
	dst := filepath.Join(dir, "early.svg")
	if err := traceWithTimeout(t, cli, "in.png", dst); err != nil {
		t.Fatalf("expected tracer status to be authoritative, got %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}

func TestTraceReportsTracerFailure(t *testing.T) {
	cli, dir := newTracer(t,
		"printf 'P1\\n1 1\\n1\\n'\n",
		"cat > /dev/null\necho 'potrace: bad header' >&2\nexit 2\n",
	)
	err := traceWithTimeout(t, cli, "in.png", filepath.Join(dir, "out.svg"))
	if err == nil {
		t.Fatal("expected error when tracer exits nonzero")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad header") {
		t.Fatalf("expected tracer stderr in error, got %v", err)
	}
}

func TestTraceFailsWhenBothSidesFail(t *testing.T) {
	cli, dir := newTracer(t,
		"echo 'magick: unable to open image' >&2\nexit 1\n",
		"cat > /dev/null\necho 'potrace: empty input' >&2\nexit 1\n",
	)
	err := traceWithTimeout(t, cli, "missing.png", filepath.Join(dir, "out.svg"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "empty input") {
		t.Fatalf("expected tracer stderr in error, got %v", err)
	}
}

func TestTraceMissingBinary(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	magick := testsupport.WriteScript(t, dir, "magick", "exit 0\n")
	cli, err := potrace.New(magick, filepath.Join(dir, "absent-potrace"), defaultSettings())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := traceWithTimeout(t, cli, "in.png", filepath.Join(dir, "out.svg")); err == nil {
		t.Fatal("expected start error for missing tracer")
	}
}

func TestTraceRejectsEmptyPaths(t *testing.T) {
	cli, err := potrace.New("magick", "potrace", defaultSettings())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := cli.Trace(context.Background(), "", "out.svg"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
