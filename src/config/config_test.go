package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volatility-observer/src/helpers"
)

const sampleYAML = `
name: volatility-observer
host: 127.0.0.1
port: 8000
log_level: INFO
allowed_origins:
  - http://localhost:3000
storage:
  db_type: sqlite
  db_path: runs.db
network:
  timeout: 15
  retries: 2
data_source:
  provider: yahoo
analysis:
  trading_days: 252
  rolling_window: 20
  yang_zhang_window: 20
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "sqlite", cfg.Storage.DBType)
	assert.Equal(t, 15, cfg.Network.RequestTimeout)
	assert.Equal(t, 2, cfg.Network.MaxRetries)
	assert.Equal(t, 0, cfg.GrpcPort)
	assert.Equal(t, "127.0.0.1", cfg.GrpcHost)
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, "name: minimal\n"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "none", cfg.Storage.DBType)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 252, cfg.Analysis.TradingDays)
	assert.Equal(t, 20, cfg.Analysis.RollingWindow)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VOLATILITY_PORT", "9100")
	t.Setenv("VOLATILITY_STORAGE_DB_TYPE", "none")
	t.Setenv("VOLATILITY_DATA_SOURCE_PROVIDER", "csv")
	t.Setenv("VOLATILITY_DATA_SOURCE_CSV_DIR", "/data/bars")
	t.Setenv("VOLATILITY_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := NewConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "none", cfg.Storage.DBType)
	assert.Equal(t, "csv", cfg.DataSource.Provider)
	assert.Equal(t, "/data/bars", cfg.DataSource.CSVDir)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"low port", "name: x\nport: 80\n"},
		{"bad provider", "name: x\ndata_source:\n  provider: bloomberg\n"},
		{"csv without dir", "name: x\ndata_source:\n  provider: csv\n"},
		{"sqlite without path", "name: x\nstorage:\n  db_type: sqlite\n"},
		{"postgres without dsn", "name: x\nstorage:\n  db_type: postgres\n"},
		{"bad log level", "name: x\nlog_level: LOUD\n"},
		{"tiny yz window", "name: x\nanalysis:\n  yang_zhang_window: 1\n"},
		{"grpc port clash", "name: x\nport: 8000\ngrpc_port: 8000\n"},
		{"not yaml", "name: [unterminated\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(writeConfig(t, tt.yaml))
			require.Error(t, err)
			var cfgErr *helpers.ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}

	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, ResolvePath(""))
	assert.Equal(t, "flag.yaml", ResolvePath("flag.yaml"))

	t.Setenv("CONFIG_PATH", "/etc/vol.yaml")
	assert.Equal(t, "/etc/vol.yaml", ResolvePath(""))
}
