package ulogger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToZerolog(t *testing.T) {
	l := New("test")
	_, ok := l.(*ZLoggerWrapper)
	require.True(t, ok)
}

func TestNewGoCore(t *testing.T) {
	l := New("test", WithLoggerType("gocore"))
	_, ok := l.(*GoCoreLogger)
	require.True(t, ok)

	// SetLogLevel is a no-op for the gocore backend, the level is fixed at
	// creation; it must still be callable through the Logger interface
	level := l.LogLevel()
	l.SetLogLevel("DEBUG")
	assert.Equal(t, level, l.LogLevel())

	d := l.Duplicate(WithLevel("ERROR"))
	require.NotNil(t, d)
}

func TestZeroLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	l := NewZeroLogger("test", WithWriter(&buf), WithLevel("WARN"))

	l.Debugf("should not appear")
	l.Infof("should not appear")
	l.Warnf("warn line")
	l.Errorf("error line")

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "warn line")
	assert.Contains(t, out, "error line")
}

func TestZeroLoggerSetLogLevel(t *testing.T) {
	var buf bytes.Buffer

	l := NewZeroLogger("test", WithWriter(&buf), WithLevel("ERROR"))
	l.SetLogLevel("DEBUG")

	l.Debugf("debug line")
	assert.Contains(t, buf.String(), "debug line")
}
