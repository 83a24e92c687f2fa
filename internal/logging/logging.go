package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup configures the global slog logger based on the desired format and verbosity.
// Without verbose only warnings reach stderr, so wrapped commands stay quiet.
func Setup(format string, verbose bool) {
	SetupWriter(os.Stderr, format, verbose)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, format string, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
