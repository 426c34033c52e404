package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("uses defaults when only the input is given", func(t *testing.T) {
		t.Setenv("RFM_INPUT_PATH", "data/online_retail.xlsx")

		cfg, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, "data/online_retail.xlsx", cfg.Input.Path)
		assert.Equal(t, "csv", cfg.Output.Format)
		assert.Equal(t, 4, cfg.Pipeline.Workers)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "none", cfg.Storage.Backend)
	})

	t.Run("overlays the file onto defaults", func(t *testing.T) {
		path := writeConfig(t, `
input:
  path: retail.csv
output:
  format: xlsx
pipeline:
  workers: 8
`)

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "retail.csv", cfg.Input.Path)
		assert.Equal(t, "xlsx", cfg.Output.Format)
		assert.Equal(t, 8, cfg.Pipeline.Workers)
		assert.Equal(t, "out", cfg.Output.Dir)
		assert.Equal(t, 10, cfg.Pipeline.TopN)
	})

	t.Run("lets the environment override the file", func(t *testing.T) {
		path := writeConfig(t, "input:\n  path: retail.csv\npipeline:\n  workers: 8\n")
		t.Setenv("RFM_PIPELINE_WORKERS", "2")
		t.Setenv("RFM_PIPELINE_KEEP_RETURNS", "true")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Pipeline.Workers)
		assert.True(t, cfg.Pipeline.KeepReturns)
		assert.Equal(t, "retail.csv", cfg.Input.Path)
	})

	t.Run("applies overrides after the environment", func(t *testing.T) {
		t.Setenv("RFM_INPUT_PATH", "retail.csv")
		t.Setenv("RFM_PIPELINE_WORKERS", "2")

		cfg, err := Load("", func(c *Config) {
			c.Input.Path = "override.xlsx"
			c.Pipeline.Workers = 6
		})

		require.NoError(t, err)
		assert.Equal(t, "override.xlsx", cfg.Input.Path)
		assert.Equal(t, 6, cfg.Pipeline.Workers)
	})

	t.Run("with zero workers returns error", func(t *testing.T) {
		path := writeConfig(t, "input:\n  path: retail.csv\npipeline:\n  workers: 0\n")

		_, err := Load(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Workers")
	})

	t.Run("with an unknown output format returns error", func(t *testing.T) {
		t.Setenv("RFM_INPUT_PATH", "retail.csv")
		t.Setenv("RFM_OUTPUT_FORMAT", "parquet")

		_, err := Load("")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Format")
	})

	t.Run("requires a bucket for the s3 backend", func(t *testing.T) {
		t.Setenv("RFM_INPUT_PATH", "retail.csv")
		t.Setenv("RFM_STORAGE_BACKEND", "s3")

		_, err := Load("")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Bucket")
	})

	t.Run("ignores unprefixed variables that share a field name", func(t *testing.T) {
		t.Setenv("RFM_INPUT_PATH", "retail.csv")
		t.Setenv("FORMAT", "xlsx")
		t.Setenv("LEVEL", "verbose")
		t.Setenv("DIR", "/elsewhere")
		t.Setenv("PREFIX", "other")

		cfg, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, "csv", cfg.Output.Format)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "out", cfg.Output.Dir)
		assert.Empty(t, cfg.Storage.Prefix)
	})

	t.Run("reads multi-word fields as underscored names", func(t *testing.T) {
		t.Setenv("RFM_INPUT_PATH", "retail.csv")
		t.Setenv("RFM_PIPELINE_TOP_N", "3")
		t.Setenv("RFM_STORAGE_BACKEND", "local")
		t.Setenv("RFM_STORAGE_PATH", "/var/rfm")
		t.Setenv("RFM_STORAGE_FORCE_PATH_STYLE", "true")
		t.Setenv("RFM_METRICS_TEXTFILE_PATH", "/var/rfm/rfm.prom")

		cfg, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Pipeline.TopN)
		assert.Equal(t, "/var/rfm", cfg.Storage.Path)
		assert.True(t, cfg.Storage.ForcePathStyle)
		assert.Equal(t, "/var/rfm/rfm.prom", cfg.Metrics.TextfilePath)
	})

	t.Run("with a missing file returns error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config from file")
	})
}
