package handler

import (
	"sync"

	"pdf-blob-analyzer/internal/domain"
)

// Recording logger used by handler package tests.
type MockHandlerLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level string
	msg   string
	err   error
}

func NewMockHandlerLogger() *MockHandlerLogger {
	return &MockHandlerLogger{}
}

func (l *MockHandlerLogger) add(level, msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, err: err})
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{}) {
	l.add("INFO", msg, nil)
}

func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {
	l.add("ERROR", msg, err)
}

func (l *MockHandlerLogger) Debug(msg string, fields ...interface{}) {
	l.add("DEBUG", msg, nil)
}

func (l *MockHandlerLogger) Warn(msg string, fields ...interface{}) {
	l.add("WARN", msg, nil)
}

func (l *MockHandlerLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

func (l *MockHandlerLogger) messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e.msg)
		}
	}
	return out
}

var _ domain.Logger = (*MockHandlerLogger)(nil)
