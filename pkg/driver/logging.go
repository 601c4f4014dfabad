package driver

import (
	"io"
	"strings"

	"github.com/oarkflow/log"
)

// LogLevelEnv selects the tracing level when set (for example "debug").
const LogLevelEnv = "LOX_LOG"

// NewLogger returns a logger writing to w. An empty or unknown level leaves
// only warnings and errors enabled.
func NewLogger(w io.Writer, level string) *log.Logger {
	logger := log.DefaultLogger
	logger.Writer = &log.IOWriter{Writer: w}
	switch lvl := strings.ToLower(strings.TrimSpace(level)); lvl {
	case "trace", "debug", "info", "warn", "error":
		logger.Level = log.ParseLevel(lvl)
	default:
		logger.Level = log.WarnLevel
	}
	return &logger
}

// discardLogger is used when a caller supplies no logger.
func discardLogger() *log.Logger {
	return NewLogger(io.Discard, "")
}
