package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Executor runs an allowed command.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

// ExitError carries a non-zero exit status of the wrapped tool so it can
// be passed through unchanged.
type ExitError struct {
	Binary string
	Code   int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Binary, e.Code)
}

// Process runs the tool as a child process sharing the given stdio.
type Process struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewProcess returns an executor wired to the current process's stdio.
func NewProcess() *Process {
	return &Process{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts binary with args and waits for it. A non-zero exit is
// reported as *ExitError; failure to start is a wrapped error.
func (p *Process) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = p.Stdin
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal.
			code = 1
		}
		return &ExitError{Binary: binary, Code: clamp(code)}
	}
	return fmt.Errorf("failed to execute %s: %w", binary, err)
}

func clamp(code int) int {
	switch {
	case code < 0:
		return 0
	case code > 255:
		return 255
	}
	return code
}
