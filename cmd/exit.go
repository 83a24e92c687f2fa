package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/gg-guard/gg/internal/gate"
	"github.com/gg-guard/gg/internal/runner"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitBlocked     = 77 // denied by policy
	ExitUnknownTool = 78 // could not tell git from gh
)

// errNoCommand is returned when only wrapper flags were given.
var errNoCommand = errors.New("no command given")

// exitCode reports err to w and maps it to the process exit status.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		exitErr   *runner.ExitError
		blocked   *gate.BlockedError
		unknown   *gate.UnknownToolError
		cancelled *gate.CancelledError
	)
	switch {
	case errors.As(err, &exitErr):
		// The tool has already reported its own failure.
		return exitErr.Code
	case errors.As(err, &blocked):
		fmt.Fprintf(w, "[gg] BLOCKED: %s\n", blocked)
		return ExitBlocked
	case errors.As(err, &unknown):
		fmt.Fprintf(w, "[gg] BLOCKED: %s\n", unknown)
		fmt.Fprintf(w, "[gg] hint: %s\n", unknown.Hint())
		return ExitUnknownTool
	case errors.As(err, &cancelled):
		fmt.Fprintf(w, "[gg] %s\n", cancelled)
		return ExitFailure
	default:
		fmt.Fprintf(w, "[gg] %v\n", err)
		return ExitFailure
	}
}
