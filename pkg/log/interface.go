// Package log provides the structured logging interface used across the
// pipeline stages.
//
// The interface is slog-shaped so that the backend can be swapped; the
// production backend is zerolog (see logger.go) and tests use TestLogger.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("dataset")
//	logger.Info("train-test split done",
//	    log.SamplesKey, 20640,
//	    log.TrainRowsKey, 13829,
//	    log.TestRowsKey, 6811,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key/value pairs. For Error, an error value
// may be passed as the first field; backends attach its stack trace.
type Logger interface {
	// Debug logs diagnostic detail, usually disabled outside development.
	Debug(msg string, fields ...any)

	// Info logs progress of a pipeline stage.
	Info(msg string, fields ...any)

	// Warn logs a condition that does not stop the run.
	Warn(msg string, fields ...any)

	// Error logs a failure. If the first field is an error, it is logged
	// with its stack trace.
	//
	// Example:
	//   logger.Error("training run failed", err, log.OperationKey, "fit")
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates loggers. It allows tests to inject a TestLogger
// where production code calls GetLogger.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
