package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestLogger_SetLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	output := buf.String()
	require.NotContains(t, output, "debug message")
	require.NotContains(t, output, "info message")
	require.Contains(t, output, "[WARN] warn message")
	require.Contains(t, output, "[ERROR] error message")
}

func TestLogger_EnvVars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scriptmatch.log")
	t.Setenv("SCRIPTMATCH_LOG_LEVEL", "debug")
	t.Setenv("SCRIPTMATCH_LOG_FILE", path)

	l := New()
	require.Equal(t, LevelDebug, l.level)

	l.Debug("hello %d", 7)
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "[DEBUG] hello 7")
}

func TestLogger_Configure(t *testing.T) {
	t.Setenv("SCRIPTMATCH_LOG_FILE", "")
	path := filepath.Join(t.TempDir(), "configured.log")

	l := New()
	require.NoError(t, l.Configure("warn", path))
	l.Info("dropped")
	l.Warn("kept")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(content), "dropped"))
	require.Contains(t, string(content), "kept")

	require.Error(t, l.Configure("loud", ""))
}

func TestLogger_CloseWithoutFile(t *testing.T) {
	t.Setenv("SCRIPTMATCH_LOG_FILE", "")
	l := New()
	require.NoError(t, l.Close())
}
