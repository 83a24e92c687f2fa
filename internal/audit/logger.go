package audit

import (
	"context"
	"strings"
	"time"
)

// Logger records one line per policy decision. Implementations must not
// block the caller for long; the gate treats failures as warnings.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
	Close() error
}

// Entry is a single audited invocation.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Tool      string    `json:"tool"`
	Args      []string  `json:"args"`
	Command   string    `json:"command"`
	Decision  string    `json:"decision"`
	Rule      string    `json:"rule,omitempty"`
	Reasons   []string  `json:"reasons,omitempty"`
}

// textTimeLayout is the timestamp layout of the text format.
const textTimeLayout = "2006-01-02 15:04:05"

// FormatText renders an entry as "[timestamp] DECISION | tool command".
func FormatText(e Entry) string {
	return "[" + e.Timestamp.Local().Format(textTimeLayout) + "] " +
		e.Decision + " | " + e.Tool + " " + Sanitize(e.Command) + "\n"
}

var newlineEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`)

// Sanitize escapes line breaks so one argument cannot forge extra log lines.
func Sanitize(s string) string {
	return newlineEscaper.Replace(s)
}
