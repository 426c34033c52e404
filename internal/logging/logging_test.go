package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisconley/retailrfm/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("writes JSON records with the run ID from context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

		logger.InfoContext(WithRunID(context.Background(), "run-42"), "stage completed", slog.String("stage", "identity_filter"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "stage completed", record["msg"])
		assert.Equal(t, "run-42", record["run_id"])
		assert.Equal(t, "identity_filter", record["stage"])
	})

	t.Run("drops records below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

		logger.Info("ignored")

		assert.Empty(t, buf.String())
	})

	t.Run("adds the source location at debug level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)

		logger.Debug("reading extract")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Contains(t, record, slog.SourceKey)
	})

	t.Run("keeps the run ID through derived loggers", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(config.LoggingConfig{Level: "info", Format: "text"}, &buf).With("component", "app")

		logger.InfoContext(WithRunID(context.Background(), "run-7"), "published")

		assert.Contains(t, buf.String(), "run_id=run-7")
		assert.Contains(t, buf.String(), "component=app")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
