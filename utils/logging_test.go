package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLoggerRecordsAllLevelsByDefault(t *testing.T) {
	m := NewMockLogger()
	m.Debug("d")
	m.Info("i")
	m.Warn("w")
	m.Error("e")
	assert.Len(t, m.Entries(), 4)
}

func TestMockLoggerFiltersByLevel(t *testing.T) {
	m := NewMockLogger()
	m.SetLevel(LogLevelWarn)

	m.Debug("dropped")
	m.Info("dropped")
	m.Warn("kept")
	m.Error("kept")

	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0], "[WARN]")
	assert.Contains(t, entries[1], "[ERROR]")
}

func TestMockLoggerOffSilencesEverything(t *testing.T) {
	m := NewMockLogger()
	m.SetLevel(LogLevelOff)

	m.Error("dropped")
	assert.Empty(t, m.Entries())
}

func TestLogLevelTextRoundTrip(t *testing.T) {
	for _, level := range []LogLevel{LogLevelOff, LogLevelError, LogLevelWarn, LogLevelInfo, LogLevelDebug} {
		var parsed LogLevel
		require.NoError(t, parsed.UnmarshalText([]byte(level.String())))
		assert.Equal(t, level, parsed)
	}

	var invalid LogLevel
	assert.Error(t, invalid.UnmarshalText([]byte("LOUD")))
}
