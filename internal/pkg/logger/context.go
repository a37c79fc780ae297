package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey     contextKey = "logger"
	documentIDKey contextKey = "document_id"
	presetIDKey   contextKey = "preset_id"
	batchIDKey    contextKey = "batch_id"
)

// WithContext returns a logger carrying the document fields stored in ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	fields := make([]zap.Field, 0, 3)
	if id := GetDocumentID(ctx); id != "" {
		fields = append(fields, zap.String("document_id", id))
	}
	if id := GetPresetID(ctx); id != "" {
		fields = append(fields, zap.String("preset_id", id))
	}
	if id := GetBatchID(ctx); id != "" {
		fields = append(fields, zap.String("batch_id", id))
	}

	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// FromContext extracts logger from context, returns the global logger if not found
func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return L()
	}

	if logger, ok := ctx.Value(loggerKey).(*Logger); ok && logger != nil {
		return logger.WithContext(ctx)
	}

	return L().WithContext(ctx)
}

// ToContext adds logger to context
func ToContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithDocumentID tags the context with the document being chunked
func WithDocumentID(ctx context.Context, documentID string) context.Context {
	return context.WithValue(ctx, documentIDKey, documentID)
}

// WithPresetID tags the context with the resolved preset
func WithPresetID(ctx context.Context, presetID string) context.Context {
	return context.WithValue(ctx, presetIDKey, presetID)
}

// WithBatchID tags the context with a multi-document batch run
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, batchIDKey, batchID)
}

// GetDocumentID extracts the document ID from context
func GetDocumentID(ctx context.Context) string {
	if id, ok := ctx.Value(documentIDKey).(string); ok {
		return id
	}
	return ""
}

// GetPresetID extracts the preset ID from context
func GetPresetID(ctx context.Context) string {
	if id, ok := ctx.Value(presetIDKey).(string); ok {
		return id
	}
	return ""
}

// GetBatchID extracts the batch ID from context
func GetBatchID(ctx context.Context) string {
	if id, ok := ctx.Value(batchIDKey).(string); ok {
		return id
	}
	return ""
}

func DebugContext(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Debug(msg, fields...)
}

func InfoContext(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Info(msg, fields...)
}

func WarnContext(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Warn(msg, fields...)
}

func ErrorContext(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Error(msg, fields...)
}
