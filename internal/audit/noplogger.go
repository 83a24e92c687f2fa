package audit

import "context"

// NopLogger is a Logger that discards all entries. Used when logging is
// disabled in the config.
type NopLogger struct{}

// NewNopLogger returns a no-op audit logger.
func NewNopLogger() *NopLogger { return &NopLogger{} }

func (n *NopLogger) Log(_ context.Context, _ Entry) error { return nil }
func (n *NopLogger) Close() error                        { return nil }
