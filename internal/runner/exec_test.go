package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"
)

func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found")
	}
	return sh
}

func TestProcess_Success(t *testing.T) {
	sh := requireShell(t)
	var out bytes.Buffer
	p := &Process{Stdout: &out, Stderr: &out}

	if err := p.Run(context.Background(), sh, []string{"-c", "echo hello"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(out.String()) != "hello" {
		t.Errorf("stdout: got %q", out.String())
	}
}

func TestProcess_ExitCodePassthrough(t *testing.T) {
	sh := requireShell(t)
	p := &Process{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	err := p.Run(context.Background(), sh, []string{"-c", "exit 3"})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("code: got %d, want 3", exitErr.Code)
	}
}

func TestProcess_MissingBinary(t *testing.T) {
	p := &Process{}
	err := p.Run(context.Background(), "/nonexistent/gg-test-binary", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Error("start failure must not look like an exit status")
	}
	if !strings.Contains(err.Error(), "failed to execute") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClamp(t *testing.T) {
	for in, want := range map[int]int{-5: 0, 0: 0, 77: 77, 255: 255, 300: 255} {
		if got := clamp(in); got != want {
			t.Errorf("clamp(%d) = %d, want %d", in, got, want)
		}
	}
}
