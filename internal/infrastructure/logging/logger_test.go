package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/player-soap-service/internal/infrastructure/config"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/logging"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(in), in)
	}
}

func TestNewLoggerTo_JSONIncludesServiceField(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.NewLoggerTo(&buf, config.LoggingConfig{Level: "info", Format: "json"})

	// Act
	logger.Info("player created", slog.Int(logging.FieldPlayerID, 7))

	// Assert
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "player created", entry["msg"])
	assert.Equal(t, "player-service", entry[logging.FieldService])
	assert.Equal(t, float64(7), entry[logging.FieldPlayerID])
}

func TestNewLoggerTo_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLoggerTo(&buf, config.LoggingConfig{Level: "warn", Format: "text"})

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_FileOutput(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "service.log")

	// Act
	logger, closeLog, err := logging.NewLogger(config.LoggingConfig{
		Level: "info", Format: "text", Output: "file", FilePath: path,
	})

	// Assert
	require.NoError(t, err)
	logger.Info("written")
	assert.NoError(t, closeLog())
}

func TestNewLogger_UnsupportedOutput(t *testing.T) {
	_, _, err := logging.NewLogger(config.LoggingConfig{Output: "syslog"})

	assert.Error(t, err)
}
