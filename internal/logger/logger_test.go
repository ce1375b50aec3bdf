package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ms-eventplatform/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.New(logger.Options{Output: &buf, Level: "warn"})
	require.NoError(t, err)

	l.Info("API", "should not appear")
	l.Warn("API", "visible warning")
	l.Error("DATABASE", "visible error")

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "visible warning")
	assert.Contains(t, out, "[DATABASE  ]")
}

func TestFileSinkWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	l, err := logger.New(logger.Options{Output: &bytes.Buffer{}, Dir: dir, Service: "test"})
	require.NoError(t, err)

	l.LogDatabase("INSERT", "users", "row created")
	l.Close()

	files, err := filepath.Glob(filepath.Join(dir, "test-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"category":"DATABASE"`))
	assert.Contains(t, string(data), "[INSERT] users - row created")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARNING"))
	assert.Equal(t, logger.INFO, logger.ParseLevel(""))
}
