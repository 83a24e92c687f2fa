package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when confirmation is required but nobody can answer.
var ErrNotTerminal = errors.New("confirmation required but stdin is not a terminal, denying")

// Confirmer asks the user whether a command may run. A false answer with a
// nil error means the user declined.
type Confirmer interface {
	Confirm(ctx context.Context, command string) (bool, error)
}

// Terminal prompts on an interactive terminal.
type Terminal struct {
	in          io.Reader
	out         io.Writer
	interactive func() bool
}

// NewTerminal returns a Confirmer reading answers from in and writing the
// question to out. in only counts as interactive if it is a terminal.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		in:          in,
		out:         out,
		interactive: func() bool { return term.IsTerminal(int(in.Fd())) },
	}
}

// NewScripted returns a Confirmer that always treats in as interactive.
func NewScripted(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, interactive: func() bool { return true }}
}

// Confirm prints the question and accepts "y" or "yes" in any case.
func (t *Terminal) Confirm(ctx context.Context, command string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !t.interactive() {
		return false, ErrNotTerminal
	}

	fmt.Fprintf(t.out, "[gg] confirm: `%s` proceed? [y/N] ", command)

	line, err := bufio.NewReader(t.in).ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	return IsYes(line), nil
}

// IsYes reports whether an answer counts as consent.
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
