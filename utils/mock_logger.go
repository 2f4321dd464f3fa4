package utils

import (
	"fmt"
	"sync"
)

// MockLogger records log lines in memory for assertions in tests.
type MockLogger struct {
	mu      sync.Mutex
	level   LogLevel
	entries []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{level: LogLevelDebug}
}

func (m *MockLogger) record(level LogLevel, msg string, keysAndValues ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if level > m.level {
		return
	}
	m.entries = append(m.entries, fmt.Sprintf("[%s] %s %v", level, msg, keysAndValues))
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.record(LogLevelDebug, msg, keysAndValues...)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.record(LogLevelInfo, msg, keysAndValues...)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.record(LogLevelWarn, msg, keysAndValues...)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.record(LogLevelError, msg, keysAndValues...)
}

func (m *MockLogger) SetLevel(level LogLevel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

// Entries returns a copy of all recorded log lines.
func (m *MockLogger) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	copy(out, m.entries)
	return out
}
