package services

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// maxStderrBytes bounds how much tool stderr is folded into an error message.
const maxStderrBytes = 2048

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// CommandExecutor runs binaries with os/exec, returning stdout. A nonzero
// exit is reported as an error carrying the tail of stderr.
type CommandExecutor struct{}

func (CommandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), ExitError(err, stderr.Bytes())
	}
	return stdout.Bytes(), nil
}

// ExitError decorates a process error with trimmed stderr output.
func ExitError(err error, stderr []byte) error {
	if err == nil {
		return nil
	}
	detail := strings.TrimSpace(string(tail(stderr, maxStderrBytes)))
	if detail == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, detail)
}

func tail(data []byte, limit int) []byte {
	if len(data) <= limit {
		return data
	}
	return data[len(data)-limit:]
}

// FormatCommand renders a command line for the run log, quoting arguments
// that contain whitespace.
func FormatCommand(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" || strings.ContainsAny(arg, " \t\n\"'") {
		return strconv.Quote(arg)
	}
	return arg
}
