package logger

import (
	"os"
	"strings"

	"pdf-blob-analyzer/internal/domain"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppLogger implements the domain.Logger interface on top of zap
type AppLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a JSON logger writing to stdout at the given level.
// The Functions host captures stdout of the custom handler process.
func NewLogger(levelStr string) domain.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		zap.NewAtomicLevelAt(parseLogLevel(levelStr)),
	)

	return FromZap(zap.New(core))
}

// FromZap wraps an existing zap logger
func FromZap(l *zap.Logger) domain.Logger {
	return &AppLogger{sugar: l.Sugar()}
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	l.sugar.Infow(msg, fields...)
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	allFields := append([]interface{}{"error", err}, fields...)
	l.sugar.Errorw(msg, allFields...)
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, fields...)
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	l.sugar.Warnw(msg, fields...)
}

// Sync flushes buffered log entries
func (l *AppLogger) Sync() error {
	return l.sugar.Sync()
}

// parseLogLevel converts string log level to a zap level
func parseLogLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
