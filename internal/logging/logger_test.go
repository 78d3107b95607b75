package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coloring/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleLoggerWritesComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "process.log")

	logger, closer, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "clean").Info("mode resolved", logging.String("mode", "color"))
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	content := readLog(t, logPath)
	if !strings.Contains(content, "INFO clean: mode resolved mode=color") {
		t.Fatalf("unexpected console line: %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")

	logger, closer, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")
	_ = closer.Close()

	if content := readLog(t, logPath); !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerQuotesValuesWithSpaces(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "quote.log")

	logger, closer, err := logging.New(logging.Options{OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Error("stage failed", logging.Error(errors.New("exit status 1")))
	_ = closer.Close()

	if content := readLog(t, logPath); !strings.Contains(content, `error="exit status 1"`) {
		t.Fatalf("expected quoted error value, got %q", content)
	}
}

func TestLogFileIsAppendOnly(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "process.log")
	for _, msg := range []string{"first run", "second run"} {
		logger, closer, err := logging.New(logging.Options{OutputPaths: []string{logPath}})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		logger.Info(msg)
		_ = closer.Close()
	}

	content := readLog(t, logPath)
	if !strings.Contains(content, "first run") || !strings.Contains(content, "second run") {
		t.Fatalf("expected both runs in log, got %q", content)
	}
}

func TestNewJSONLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, closer, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"))
	_ = closer.Close()

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["msg"] != "json message" || payload["k"] != "v" || payload["level"] != "info" {
		t.Fatalf("unexpected json payload: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")

	logger, closer, err := logging.New(logging.Options{Level: "invalid", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	_ = closer.Close()

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden") || !strings.Contains(content, "shown") {
		t.Fatalf("expected info threshold, got %q", content)
	}
}

func TestRunOptionsIncludesStdoutAndLogFile(t *testing.T) {
	opts := logging.RunOptions("debug", "console", "/tmp/process.log")
	if len(opts.OutputPaths) != 2 || opts.OutputPaths[0] != "stdout" || opts.OutputPaths[1] != "/tmp/process.log" {
		t.Fatalf("unexpected outputs: %v", opts.OutputPaths)
	}
	if got := logging.RunOptions("", "", "").OutputPaths; len(got) != 1 {
		t.Fatalf("expected stdout only without log path, got %v", got)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")
	logger, closer, err := logging.New(logging.Options{OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithStage(logging.WithFile(context.Background(), "cat.png"), "trace")
	logging.WithContext(ctx, logger).Info("contextual log")
	_ = closer.Close()

	content := readLog(t, logPath)
	if !strings.Contains(content, "file=cat.png") || !strings.Contains(content, "stage=trace") {
		t.Fatalf("expected context fields, got %q", content)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, closer, err := logging.New(logging.Options{OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "probe failed", "saturation_probe")
	_ = closer.Close()

	content := readLog(t, logPath)
	if !strings.Contains(content, "event_type=saturation_probe") || !strings.Contains(content, "impact=") {
		t.Fatalf("expected injected fields, got %q", content)
	}
}
