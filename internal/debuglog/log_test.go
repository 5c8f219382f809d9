package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupFile starts logging at level into a fresh file and returns a reader
// for its contents.
func setupFile(t *testing.T, level LogLevel) func() string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "rdash.log")
	require.NoError(t, Setup(level, path))
	t.Cleanup(func() {
		_ = Close()
		_ = Setup(LevelOff)
	})

	return func() string {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return string(data)
	}
}

func TestLogLevelString(t *testing.T) {
	tests := map[LogLevel]string{
		LevelDebug:   "DEBUG",
		LevelInfo:    "INFO",
		LevelWarn:    "WARN",
		LevelError:   "ERROR",
		LevelOff:     "OFF",
		LogLevel(42): "UNKNOWN",
	}
	for level, want := range tests {
		assert.Equal(t, want, level.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"off", LevelOff},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

func TestSetupWritesPlainTintLines(t *testing.T) {
	read := setupFile(t, LevelInfo)

	Debugf("poll %d", 1)
	Infof("connected to %s", "http://nas:8080")
	Warnf("stream dropped")
	Errorf("refresh failed: %v", "timeout")

	out := read()
	assert.NotContains(t, out, "poll 1")
	assert.Contains(t, out, "INF connected to http://nas:8080")
	assert.Contains(t, out, "WRN stream dropped")
	assert.Contains(t, out, "ERR refresh failed: timeout")
	assert.NotContains(t, out, "\x1b[", "file output carries no color codes")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestSetLevelMovesThresholdOfRunningLogger(t *testing.T) {
	read := setupFile(t, LevelInfo)

	SetLevel(LevelError)
	assert.Equal(t, LevelError, GetLevel())
	Warnf("hidden warning")
	Errorf("visible error")

	SetLevel(LevelDebug)
	Debugf("visible debug")
	Logger().Debug("retry: attempt", "n", 2)

	out := read()
	assert.NotContains(t, out, "hidden warning")
	assert.Contains(t, out, "ERR visible error")
	assert.Contains(t, out, "DBG visible debug")
	assert.Contains(t, out, "DBG retry: attempt n=2")
}

func TestFieldLoggerWritesAttributes(t *testing.T) {
	read := setupFile(t, LevelDebug)

	WithFields(map[string]interface{}{"url": "http://nas:8080/api/downloads/stream"}).
		Warnf("stream: connection lost: %v", "EOF")
	WithFields(map[string]interface{}{"event": "download"}).Debugf("dropped pushed event")

	out := read()
	assert.Contains(t, out, "WRN stream: connection lost: EOF url=http://nas:8080/api/downloads/stream")
	assert.Contains(t, out, "DBG dropped pushed event event=download")
}

func TestSetupOffCreatesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never", "rdash.log")
	require.NoError(t, Setup(LevelOff, path))
	t.Cleanup(func() { _ = Close() })

	Errorf("nobody hears this")
	WithFields(map[string]interface{}{"k": "v"}).Errorf("nor this")

	assert.Equal(t, LevelOff, GetLevel())
	_, err := os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(err))
}

func TestLoggerDiscardsWhenOff(t *testing.T) {
	require.NoError(t, Setup(LevelOff))

	assert.Same(t, discard, Logger())
	Logger().Error("dropped", "k", "v")
}

func TestLoggerIsLiveWhenOn(t *testing.T) {
	read := setupFile(t, LevelInfo)

	require.NotSame(t, discard, Logger())
	Logger().Info("retry: giving up", "url", "http://nas:8080")

	assert.Contains(t, read(), "INF retry: giving up url=http://nas:8080")
}

func TestSetupFailsOnUnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := Setup(LevelInfo, filepath.Join(blocker, "rdash.log"))
	t.Cleanup(func() { _ = Setup(LevelOff) })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create log directory")
}

func TestCloseTwice(t *testing.T) {
	setupFile(t, LevelInfo)

	require.NoError(t, Close())
	require.NoError(t, Close())
	assert.Same(t, discard, Logger())
}
