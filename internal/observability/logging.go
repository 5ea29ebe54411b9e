package observability

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey is the context key under which the request ID is stored.
type contextKey string

const RequestIDKey contextKey = "request_id"

// Logger provides structured logging for the portal
type Logger struct {
	zap           *zap.Logger
	metrics       *Metrics
	contextFields []zapcore.Field
}

// NewLogger creates a new logger
func NewLogger(level string, jsonFormat bool, metrics *Metrics) (*Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if jsonFormat {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var zapLevel zapcore.Level
	if err := zapLevel.Set(level); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zap.NewAtomicLevelAt(zapLevel))
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &Logger{
		zap:     logger,
		metrics: metrics,
	}, nil
}

// NewNopLogger returns a logger that discards everything, for tests
func NewNopLogger() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// WithField returns a new logger with a field added to the context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	if l == nil {
		return nil
	}

	fields := make([]zapcore.Field, len(l.contextFields), len(l.contextFields)+1)
	copy(fields, l.contextFields)
	fields = append(fields, zap.Any(key, value))

	return &Logger{
		zap:           l.zap,
		metrics:       l.metrics,
		contextFields: fields,
	}
}

// WithContext returns a new logger carrying the request ID from ctx, if any
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if l == nil {
		return nil
	}
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		return l.WithField("request_id", reqID)
	}
	return l
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...zapcore.Field) {
	if l == nil {
		return
	}
	l.zap.Debug(msg, l.mergeFields(fields)...)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...zapcore.Field) {
	if l == nil {
		return
	}
	l.zap.Info(msg, l.mergeFields(fields)...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...zapcore.Field) {
	if l == nil {
		return
	}
	l.zap.Warn(msg, l.mergeFields(fields)...)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error, fields ...zapcore.Field) {
	if l == nil {
		return
	}

	if l.metrics != nil {
		l.metrics.RecordError("application")
	}

	all := l.mergeFields(fields)
	if err != nil {
		all = append(all, zap.Error(err))
	}
	l.zap.Error(msg, all...)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string, err error, fields ...zapcore.Field) {
	if l == nil {
		os.Exit(1)
		return
	}

	all := l.mergeFields(fields)
	if err != nil {
		all = append(all, zap.Error(err))
	}
	l.zap.Fatal(msg, all...)
}

// APIRequest logs a completed HTTP request and records its metrics
func (l *Logger) APIRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	if l == nil {
		return
	}

	if l.metrics != nil {
		l.metrics.RecordHTTPRequest(method, path, status, duration)
	}

	l.WithContext(ctx).Info("http request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", duration),
	)
}

// Sync flushes buffered log entries
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.zap.Sync()
}

func (l *Logger) mergeFields(fields []zapcore.Field) []zapcore.Field {
	if len(l.contextFields) == 0 {
		return fields
	}
	all := make([]zapcore.Field, 0, len(l.contextFields)+len(fields))
	all = append(all, l.contextFields...)
	all = append(all, fields...)
	return all
}
