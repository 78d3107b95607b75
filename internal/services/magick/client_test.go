package magick_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"coloring/internal/imaging"
	"coloring/internal/services"
	"coloring/internal/services/magick"
)

type stubExecutor struct {
	probeOutput string
	probeErr    error
	cleanErr    error
	calls       int
	args        [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	s.calls++
	s.args = append(s.args, append([]string(nil), args...))
	if len(args) > 0 && args[len(args)-1] == "info:" {
		return []byte(s.probeOutput), s.probeErr
	}
	return nil, s.cleanErr
}

func defaultSettings() magick.Settings {
	return magick.Settings{
		LevelLowPercent:     0,
		LevelHighPercent:    80,
		ThresholdPercent:    65,
		PosterizeColors:     8,
		SaturationThreshold: 0.05,
	}
}

func newClient(t *testing.T, exec *stubExecutor) *magick.Client {
	t.Helper()
	client, err := magick.New("magick", defaultSettings(), magick.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := magick.New("  ", defaultSettings()); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestModeForSaturationBoundaryIsBW(t *testing.T) {
	tests := []struct {
		saturation float64
		want       imaging.Mode
	}{
		{0, imaging.ModeBW},
		{0.0499, imaging.ModeBW},
		{0.05, imaging.ModeBW},
		{0.0501, imaging.ModeColor},
		{0.9, imaging.ModeColor},
	}
	for _, tc := range tests {
		if got := magick.ModeForSaturation(tc.saturation, 0.05); got != tc.want {
			t.Fatalf("ModeForSaturation(%v) = %v, want %v", tc.saturation, got, tc.want)
		}
	}
}

func TestCleanAutoColorBuildsPosterizeArgs(t *testing.T) {
	exec := &stubExecutor{probeOutput: "0.31\n"}
	client := newClient(t, exec)

	mode, err := client.Clean(context.Background(), "in/cat.png", "cleaned/cat.png", imaging.ModeAuto, imaging.InvertOff)
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if mode != imaging.ModeColor {
		t.Fatalf("expected color mode, got %v", mode)
	}
	if exec.calls != 2 {
		t.Fatalf("expected probe and transform invocations, got %d", exec.calls)
	}
	wantProbe := []string{"in/cat.png", "-colorspace", "HSL", "-channel", "S", "-separate", "-format", "%[fx:mean]", "info:"}
	if !equalStrings(exec.args[0], wantProbe) {
		t.Fatalf("unexpected probe args: got %v want %v", exec.args[0], wantProbe)
	}
	wantClean := []string{
		"in/cat.png", "-level", "0%,80%",
		"-dither", "None", "-colors", "8", "-colorspace", "Gray", "-threshold", "65%",
		"cleaned/cat.png",
	}
	if !equalStrings(exec.args[1], wantClean) {
		t.Fatalf("unexpected clean args: got %v want %v", exec.args[1], wantClean)
	}
}

func TestCleanForcedBWWithInvertSkipsProbe(t *testing.T) {
	exec := &stubExecutor{}
	client := newClient(t, exec)

	mode, err := client.Clean(context.Background(), "a.jpg", "b.png", imaging.ModeBW, imaging.InvertOn)
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if mode != imaging.ModeBW {
		t.Fatalf("expected bw, got %v", mode)
	}
	if exec.calls != 1 {
		t.Fatalf("forced mode must not probe, got %d calls", exec.calls)
	}
	want := []string{
		"a.jpg", "-level", "0%,80%", "-negate",
		"-alpha", "remove", "-alpha", "off", "-colorspace", "Gray", "-threshold", "65%",
		"b.png",
	}
	if !equalStrings(exec.args[0], want) {
		t.Fatalf("unexpected clean args: got %v want %v", exec.args[0], want)
	}
}

func TestResolveModeFallsBackToBW(t *testing.T) {
	tests := []struct {
		name string
		exec *stubExecutor
	}{
		{"probe error", &stubExecutor{probeErr: errors.New("exit status 1")}},
		{"non numeric", &stubExecutor{probeOutput: "n/a"}},
		{"empty", &stubExecutor{probeOutput: ""}},
		{"nan", &stubExecutor{probeOutput: "NaN"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newClient(t, tc.exec)
			if got := client.ResolveMode(context.Background(), "x.png", imaging.ModeAuto); got != imaging.ModeBW {
				t.Fatalf("expected bw fallback, got %v", got)
			}
		})
	}
}

func TestResolveModeIsDeterministic(t *testing.T) {
	exec := &stubExecutor{probeOutput: "0.05"}
	client := newClient(t, exec)
	for i := 0; i < 3; i++ {
		if got := client.ResolveMode(context.Background(), "x.png", imaging.ModeAuto); got != imaging.ModeBW {
			t.Fatalf("run %d: expected bw at boundary, got %v", i, got)
		}
	}
}

func TestSaturationParsesOutput(t *testing.T) {
	client := newClient(t, &stubExecutor{probeOutput: " 0.125 \n"})
	value, err := client.Saturation(context.Background(), "x.png")
	if err != nil {
		t.Fatalf("Saturation returned error: %v", err)
	}
	if value != 0.125 {
		t.Fatalf("unexpected saturation %v", value)
	}

	client = newClient(t, &stubExecutor{probeOutput: "garbage"})
	if _, err := client.Saturation(context.Background(), "x.png"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCleanPropagatesTransformFailure(t *testing.T) {
	exec := &stubExecutor{cleanErr: errors.New("exit status 1: no decode delegate")}
	client := newClient(t, exec)

	_, err := client.Clean(context.Background(), "a.webp", "b.png", imaging.ModeColor, imaging.InvertOff)
	if err == nil {
		t.Fatal("expected error from transform")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "no decode delegate") {
		t.Fatalf("expected cause in error, got %v", err)
	}
}

func TestCleanHonoursCustomSettings(t *testing.T) {
	exec := &stubExecutor{}
	settings := defaultSettings()
	settings.ThresholdPercent = 55
	settings.PosterizeColors = 4
	settings.LevelLowPercent = 10
	settings.LevelHighPercent = 90
	client, err := magick.New("magick", settings, magick.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Clean(context.Background(), "a.png", "b.png", imaging.ModeColor, imaging.InvertOff); err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	got := strings.Join(exec.args[0], " ")
	for _, fragment := range []string{"-level 10%,90%", "-colors 4", "-threshold 55%"} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("expected %q in %q", fragment, got)
		}
	}
}
