package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for structured logging.
// Use these constants instead of raw strings.
const (
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Pipeline
	FieldFile   = "file"
	FieldOutput = "output"
	FieldTarget = "target"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldDiagnostics = "diagnostics"
	FieldCount       = "count"
	FieldWorkers     = "workers"
	FieldBytes       = "bytes"

	FieldConfigFile = "config_file"
	FieldCommand    = "command"
)

type contextKey string

const (
	runIDKey     contextKey = "logger_run_id"
	componentKey contextKey = "logger_component"
)

// WithRunID adds a batch run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context as key-value pairs
// suitable for Infow/Debugw.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, FieldRunID, runID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns a logger carrying the fields stored in ctx.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
//
//	w := &Watcher{logger: logger.ComponentLogger("watch")}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
