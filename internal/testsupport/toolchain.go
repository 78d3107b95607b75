package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	// StubLogEnv names the file every fake tool appends its argv to.
	StubLogEnv = "COLORING_STUB_LOG"
	// StubFixturesEnv names the directory holding export.png and export.pdf.
	StubFixturesEnv = "COLORING_STUB_FIXTURES"
	// StubSaturationEnv overrides the saturation the fake probe reports.
	StubSaturationEnv = "COLORING_STUB_SATURATION"
)

// Sources whose name contains FailMarker make the fake magick exit 1.
const FailMarker = "broken"

const magickScript = `printf 'magick %s\n' "$*" >> "$` + StubLogEnv + `"
name=$(basename "$1")
case "$name" in
  *` + FailMarker + `*) echo "magick: no decode delegate for this image format" >&2; exit 1 ;;
esac
last=""
for arg in "$@"; do last="$arg"; done
case "$last" in
  info:)
    case "$name" in
      *gray*) printf '0.01' ;;
      *) printf '%s' "${` + StubSaturationEnv + `:-0.3}" ;;
    esac
    ;;
  pnm:-) printf 'P1\n2 2\n1 0\n0 1\n' ;;
  *) printf 'cleaned\n' > "$last" ;;
esac
`

const potraceScript = `printf 'potrace %s\n' "$*" >> "$` + StubLogEnv + `"
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; shift; fi
  shift
done
cat > /dev/null
printf '<svg xmlns="http://www.w3.org/2000/svg"/>\n' > "$out"
`

const inkscapeScript = `printf 'inkscape %s\n' "$*" >> "$` + StubLogEnv + `"
out=""
for arg in "$@"; do
  case "$arg" in --export-filename=*) out="${arg#--export-filename=}" ;; esac
done
case "$out" in
  *.png) cp "$` + StubFixturesEnv + `/export.png" "$out" ;;
  *.pdf) cp "$` + StubFixturesEnv + `/export.pdf" "$out" ;;
  *) printf 'export\n' > "$out" ;;
esac
`

// WithFakeToolchain installs magick, potrace, and inkscape scripts that
// produce plausible artifacts and record each invocation. The fake inkscape
// copies a real PNG of the configured export width and a one-page PDF so
// deliverable inspection passes.
func WithFakeToolchain() ConfigOption {
	return func(b *configBuilder) {
		binDir := BinDir(b.t, b.baseDir)
		fixtures := filepath.Join(b.baseDir, "fixtures")
		WritePNG(b.t, filepath.Join(fixtures, "export.png"), b.cfg.Export.WidthPx, 4)
		WritePDF(b.t, filepath.Join(fixtures, "export.pdf"), 1)

		b.t.Setenv(StubLogEnv, filepath.Join(b.baseDir, "stub.log"))
		b.t.Setenv(StubFixturesEnv, fixtures)

		WriteScript(b.t, binDir, b.cfg.Tools.Magick, magickScript)
		WriteScript(b.t, binDir, b.cfg.Tools.Potrace, potraceScript)
		WriteScript(b.t, binDir, b.cfg.Tools.Inkscape, inkscapeScript)
	}
}

// StubInvocations returns the recorded fake tool invocations in order.
func StubInvocations(t testing.TB) []string {
	t.Helper()
	data, err := os.ReadFile(os.Getenv(StubLogEnv))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read stub log: %v", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
