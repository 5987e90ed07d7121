package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "highlights.log")
	l, err := NewFileLogger(path, "debug", true)
	require.NoError(t, err)

	l.Info("client", "request done", map[string]interface{}{"status": 200})
	l.Error("toolbar", "search failed", map[string]interface{}{"error": errors.New("boom")})
	l.Debug("client", "no details", nil)
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "request done", first["message"])
	assert.Equal(t, "client", first["module"])
	assert.Equal(t, path, l.FilePath())

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "boom", second["error"])
}

func TestFileLoggerRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highlights.log")
	l, err := NewFileLogger(path, "warn", false)
	require.NoError(t, err)

	l.Info("client", "dropped", nil)
	l.Warn("client", "kept", nil)
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestFileLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "x.log"), "loud", false)
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	l := NewNop()
	l.Error("x", "y", map[string]interface{}{"error": errors.New("z")})
	assert.Empty(t, l.FilePath())
}
