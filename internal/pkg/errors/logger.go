// Package errors provides error types and logging utilities for gitmsg.
package errors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level.
type LogLevel int

const (
	// LogLevelError logs only errors.
	LogLevelError LogLevel = iota
	// LogLevelWarn logs warnings and errors.
	LogLevelWarn
	// LogLevelInfo logs info, warnings, and errors.
	LogLevelInfo
	// LogLevelDebug logs everything including debug messages.
	LogLevelDebug
)

// String returns the string representation of LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "ERROR"
	case LogLevelWarn:
		return "WARN"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled, timestamped lines. Every line passes through
// SanitizeErrorMessage so keys embedded in URLs or error text never reach
// the output.
type Logger struct {
	mu      sync.Mutex
	output  io.Writer
	level   LogLevel
	verbose bool
}

var defaultLogger = NewLogger(os.Stderr, false)

// NewLogger creates a new logger. Verbose loggers emit DEBUG and above,
// quiet loggers emit only errors.
func NewLogger(output io.Writer, verbose bool) *Logger {
	l := &Logger{output: output}
	l.setVerbose(verbose)
	return l
}

func (l *Logger) setVerbose(verbose bool) {
	l.verbose = verbose
	l.level = LogLevelError
	if verbose {
		l.level = LogLevelDebug
	}
}

// SetVerbose enables or disables verbose logging on the default logger.
func SetVerbose(verbose bool) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.setVerbose(verbose)
}

// IsVerbose returns whether verbose logging is enabled.
func IsVerbose() bool {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	return defaultLogger.verbose
}

// SetOutput sets the output writer for the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.output = w
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.level {
		return
	}

	message := SanitizeErrorMessage(fmt.Sprintf(format, args...))
	fmt.Fprintf(l.output, "[%s] %s: %s\n", time.Now().Format("15:04:05"), level, message)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LogLevelError, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LogLevelWarn, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LogLevelInfo, format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LogLevelDebug, format, args...)
}

// LogAPIRequest logs an outbound provider request in verbose mode.
func (l *Logger) LogAPIRequest(provider, endpoint, model string, promptLength int) {
	if !l.verbose {
		return
	}
	l.Debug("API Request: provider=%s, endpoint=%s, model=%s, prompt_length=%d",
		provider, endpoint, model, promptLength)
}

// LogAPIResponse logs a provider response in verbose mode.
func (l *Logger) LogAPIResponse(provider string, statusCode int, responseLength int, duration time.Duration) {
	if !l.verbose {
		return
	}
	l.Debug("API Response: provider=%s, status=%d, response_length=%d, duration=%v",
		provider, statusCode, responseLength, duration.Round(time.Millisecond))
}

// LogAction logs the side effect chosen for a generated message.
func (l *Logger) LogAction(action string, messageLength int) {
	l.Info("Action: %s (message_length=%d)", action, messageLength)
}

// Package-level logging functions using the default logger

// Error logs an error message.
func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

// Info logs an info message.
func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

// LogAPIRequest logs an outbound provider request in verbose mode.
func LogAPIRequest(provider, endpoint, model string, promptLength int) {
	defaultLogger.LogAPIRequest(provider, endpoint, model, promptLength)
}

// LogAPIResponse logs a provider response in verbose mode.
func LogAPIResponse(provider string, statusCode int, responseLength int, duration time.Duration) {
	defaultLogger.LogAPIResponse(provider, statusCode, responseLength, duration)
}

// LogAction logs the side effect chosen for a generated message.
func LogAction(action string, messageLength int) {
	defaultLogger.LogAction(action, messageLength)
}

// MaskAPIKey masks an API key for safe logging, showing only the last 4 characters.
func MaskAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(apiKey)-4) + apiKey[len(apiKey)-4:]
}
