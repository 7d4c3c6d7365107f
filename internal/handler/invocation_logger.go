package handler

import (
	"fmt"
	"strings"
	"sync"

	"pdf-blob-analyzer/internal/domain"
)

// invocationLogger forwards to the process logger and keeps a copy of each
// line so it can be returned to the Functions host with the invocation.
type invocationLogger struct {
	base   domain.Logger
	fields []interface{}

	mu    sync.Mutex
	lines []string
}

func newInvocationLogger(base domain.Logger, invocationID string) *invocationLogger {
	return &invocationLogger{
		base:   base,
		fields: []interface{}{"invocation_id", invocationID},
	}
}

func (l *invocationLogger) Info(msg string, fields ...interface{}) {
	l.base.Info(msg, l.with(fields)...)
	l.record("INFO", msg, fields...)
}

func (l *invocationLogger) Error(msg string, err error, fields ...interface{}) {
	l.base.Error(msg, err, l.with(fields)...)
	l.record("ERROR", msg, append([]interface{}{"error", err}, fields...)...)
}

func (l *invocationLogger) Debug(msg string, fields ...interface{}) {
	l.base.Debug(msg, l.with(fields)...)
}

func (l *invocationLogger) Warn(msg string, fields ...interface{}) {
	l.base.Warn(msg, l.with(fields)...)
	l.record("WARN", msg, fields...)
}

// Lines returns the recorded log lines
func (l *invocationLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *invocationLogger) with(fields []interface{}) []interface{} {
	all := make([]interface{}, 0, len(fields)+len(l.fields))
	all = append(all, fields...)
	return append(all, l.fields...)
}

func (l *invocationLogger) record(level, msg string, fields ...interface{}) {
	logMsg := fmt.Sprintf("%s: %s", level, msg)

	if len(fields) > 0 {
		fieldStrs := make([]string, 0, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			fieldStrs = append(fieldStrs, fmt.Sprintf("%v=%v", fields[i], fields[i+1]))
		}
		if len(fieldStrs) > 0 {
			logMsg += " " + strings.Join(fieldStrs, " ")
		}
	}

	l.mu.Lock()
	l.lines = append(l.lines, logMsg)
	l.mu.Unlock()
}
