// Package debug provides conditional debug logging for gmctl.
//
// Debug logging is enabled by setting the GMCTL_DEBUG environment
// variable:
//
//	GMCTL_DEBUG=1 gmctl
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), logging is a no-op. Stderr is a safe sink
// even while the TUI owns the terminal: redirect it to a file when
// tracing a live session.
package debug

import (
	"log"
	"os"
)

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("GMCTL_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[GMCTL_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}
