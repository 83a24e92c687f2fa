package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Formats supported by FileLogger.
const (
	FormatTextLines = "text"
	FormatJSONLines = "json"
)

// FileConfig controls where and how the audit log is written.
type FileConfig struct {
	Path       string
	Format     string // "text" (default) or "json"
	MaxSizeMB  int    // rotation threshold; 0 uses the lumberjack default of 100 MB
	MaxBackups int    // rotated files kept (default: 3)
}

// FileLogger appends audit entries to a file, rotating it by size.
type FileLogger struct {
	out    *lumberjack.Logger
	format string
	now    func() time.Time
}

// NewFileLogger creates the log directory and returns a logger writing to
// cfg.Path. The file itself is opened on the first write.
func NewFileLogger(cfg FileConfig) (*FileLogger, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("audit log path is empty")
	}
	switch cfg.Format {
	case "":
		cfg.Format = FormatTextLines
	case FormatTextLines, FormatJSONLines:
	default:
		return nil, fmt.Errorf("unknown audit log format %q", cfg.Format)
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", dir, err)
	}

	return &FileLogger{
		out: &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
		},
		format: cfg.Format,
		now:    time.Now,
	}, nil
}

// Log appends a single entry. Missing ID and timestamp are filled in.
func (l *FileLogger) Log(_ context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}

	var line []byte
	switch l.format {
	case FormatJSONLines:
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshaling audit entry: %w", err)
		}
		line = append(data, '\n')
	default:
		line = []byte(FormatText(entry))
	}

	if _, err := l.out.Write(line); err != nil {
		return fmt.Errorf("writing audit entry: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *FileLogger) Close() error {
	return l.out.Close()
}
