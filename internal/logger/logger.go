// Package logger provides leveled logging for KanoonSetu.
// Debug, Info and Warn messages are only printed when verbose mode is
// enabled via the --verbose flag. Error messages are always printed.
// Lines are written to stderr as "<RFC3339 time> LEVEL message".
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	now               = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(true, "DEBUG", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(true, "INFO", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	write(true, "WARN", format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	write(false, "ERROR", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Request returns a logger whose lines are prefixed with a request id.
func Request(id string) *RequestLogger {
	return &RequestLogger{prefix: "[" + id + "] "}
}

// RequestLogger correlates log lines belonging to one pipeline request.
type RequestLogger struct {
	prefix string
}

// Debug prints a request-scoped debug message.
func (l *RequestLogger) Debug(format string, args ...any) {
	write(true, "DEBUG", l.prefix+format, args...)
}

// Info prints a request-scoped informational message.
func (l *RequestLogger) Info(format string, args ...any) {
	write(true, "INFO", l.prefix+format, args...)
}

// Warn prints a request-scoped warning.
func (l *RequestLogger) Warn(format string, args ...any) {
	write(true, "WARN", l.prefix+format, args...)
}

// Error prints a request-scoped error.
func (l *RequestLogger) Error(format string, args ...any) {
	write(false, "ERROR", l.prefix+format, args...)
}

func write(verboseOnly bool, level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verboseOnly && !verbose {
		return
	}
	fmt.Fprintf(output, "%s %s "+format+"\n",
		append([]any{now().Format(time.RFC3339), level}, args...)...)
}
