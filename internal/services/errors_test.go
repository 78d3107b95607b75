package services_test

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"coloring/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "trace", "potrace", "failed", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"trace", "potrace", "failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "", "", "", nil)
	if err.Error() != "validation error: service failure" {
		t.Fatalf("unexpected message: %q", err)
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]error{
		"external_tool": services.Wrap(services.ErrExternalTool, "clean", "magick", "", nil),
		"validation":    services.Wrap(services.ErrValidation, "export", "", "bad", nil),
		"not_found":     services.Wrap(services.ErrNotFound, "locate", "", "", nil),
		"unknown":       errors.New("plain"),
		"":              nil,
	}
	for want, err := range cases {
		if got := services.Classify(err); got != want {
			t.Fatalf("Classify(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestFormatCommandQuotesWhitespace(t *testing.T) {
	got := services.FormatCommand("magick", []string{"/tmp/my cat.png", "-level", "0%,80%", "out.png"})
	want := `magick "/tmp/my cat.png" -level 0%,80% out.png`
	if got != want {
		t.Fatalf("FormatCommand = %q, want %q", got, want)
	}
}

func TestCommandExecutorReportsStderr(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out, err := services.CommandExecutor{}.Run(context.Background(), "sh", []string{"-c", "echo partial; echo bad input >&2; exit 3"})
	if err == nil {
		t.Fatal("expected error for nonzero exit")
	}
	if !strings.Contains(err.Error(), "bad input") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Fatalf("expected exit code 3, got %v", err)
	}
	if strings.TrimSpace(string(out)) != "partial" {
		t.Fatalf("expected stdout to be returned, got %q", out)
	}
}

func TestCommandExecutorReturnsStdout(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out, err := services.CommandExecutor{}.Run(context.Background(), "sh", []string{"-c", "printf 0.42"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if string(out) != "0.42" {
		t.Fatalf("unexpected stdout %q", out)
	}
}
