package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/solace/internal/config"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: format})
		require.NoError(t, err, format)
		assert.NotNil(t, logger)
	}
}

func TestNewLogger_Rejects(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "trace", Format: "json"})
	assert.Error(t, err)
	_, err = NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.log")
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.Contains(t, string(data), `"logger":"solace"`)
	assert.NotContains(t, string(data), "dropped")
}

func TestNewLogger_ConsoleFileHasNoColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "console", Output: path})
	require.NoError(t, err)

	logger.Debug("battle started")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG")
	assert.Contains(t, string(data), "solace")
	assert.NotContains(t, string(data), "\033[")
}

func TestNewLogger_UnopenableOutput(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log"),
	})
	assert.Error(t, err)
}
