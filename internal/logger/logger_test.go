package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.log")
	l, err := New(Config{
		Level:    INFO,
		FilePath: path,
		MaxSize:  1024 * 1024,
	})
	require.NoError(t, err)
	defer l.Close()

	l.Info("server started", F("addr", ":8080"))
	l.Error("query failed", F("error", "connection reset"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "INFO: server started addr=:8080")
	assert.Contains(t, out, "ERROR: query failed error=connection reset")
}

func TestLoggerLevelFiltering(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.log")
	l, err := New(Config{
		Level:    WARN,
		FilePath: path,
		MaxSize:  1024 * 1024,
	})
	require.NoError(t, err)
	defer l.Close()

	l.Debug("noise")
	l.Info("still noise")
	l.Warn("worth keeping")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "noise")
	assert.Contains(t, out, "worth keeping")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DEBUG, ParseLevel("DEBUG"))
	assert.Equal(t, WARN, ParseLevel("WARN"))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel("INFO"))
	assert.Equal(t, INFO, ParseLevel("whatever"))
}
