package log

import (
	"context"
	"log/slog"
	"net/http"
)

// ContextKey type for context keys
type ContextKey string

// LoggerContextKey is the context key for the request logger.
const LoggerContextKey ContextKey = "logger"

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts the request logger, falling back to the slog default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return newLogger(slog.Default(), "unknown")
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogHTTPStart logs the start of an HTTP request
func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent"), r.Header.Get("Referer")).
		WithClientIP(clientIP)

	sl.logger.WithComponent(ComponentHTTP).InfoContext(ctx, "HTTP request started", fields.ToSlice()...)
}

// LogHTTPEnd logs the completion of an HTTP request. 4xx is logged as a
// warning, 5xx as an error.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = slog.LevelWarn
	} else if statusCode >= 500 {
		level = slog.LevelError
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "").
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithClientIP(clientIP)

	sl.logger.WithComponent(ComponentHTTP).Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

// LogEmployeeAdded logs a successful append
func (sl *StructuredLogger) LogEmployeeAdded(ctx context.Context, name, department, seniority string, rows int) {
	fields := NewFields().
		WithEmployee(name, department, seniority).
		WithOperation(OpAppend).
		ToSlice()

	fields = append(fields, FieldRows, rows)

	sl.logger.InfoContext(ctx, "Employee added", fields...)
}

// LogUpload logs an accepted upload, warning when columns were missing
func (sl *StructuredLogger) LogUpload(ctx context.Context, filename, format string, rows int, missing []string) {
	fields := NewFields().
		WithUpload(filename, format, rows, missing).
		WithOperation(OpUpload).
		ToSlice()

	logger := sl.logger.WithComponent(ComponentUpload)
	if len(missing) > 0 {
		logger.WarnContext(ctx, "Upload missing columns, defaults applied", fields...)
		return
	}
	logger.InfoContext(ctx, "Upload saved", fields...)
}
