package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
replica:
  id: 6f1c2a4e-8d3b-4f5a-9c7e-2b1d0e4f6a8c
logging:
  level: DEBUG
storage:
  shards: 16
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "6f1c2a4e-8d3b-4f5a-9c7e-2b1d0e4f6a8c", cfg.Replica.ID)
	require.Equal(t, uuid.MustParse("6f1c2a4e-8d3b-4f5a-9c7e-2b1d0e4f6a8c"), cfg.Replica.UUID())
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, 16, cfg.Storage.Shards)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestPopulateDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	cfg.PopulateDefaults()
	require.NoError(t, cfg.Validate())

	_, err = uuid.Parse(cfg.Replica.ID)
	require.NoError(t, err, "default replica id should be a uuid")
	require.NotEqual(t, uuid.Nil, cfg.Replica.UUID())
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, 64, cfg.Storage.Shards)
}

func TestPopulateDefaults_LogLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "Warn")

	cfg := &Config{}
	cfg.PopulateDefaults()
	require.Equal(t, "warn", cfg.Logging.Level)

	cfg = &Config{Logging: LoggingConfig{Level: "error"}}
	cfg.PopulateDefaults()
	require.Equal(t, "error", cfg.Logging.Level)
}

func TestDefault(t *testing.T) {
	a, b := Default(), Default()
	require.NoError(t, a.Validate())
	require.NotEqual(t, a.Replica.ID, b.Replica.ID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:    "blank replica id",
			mutate:  func(c *Config) { c.Replica.ID = "  " },
			wantErr: ErrMissingReplicaID,
		},
		{
			name:    "replica id is not a uuid",
			mutate:  func(c *Config) { c.Replica.ID = "replica-1" },
			wantErr: ErrInvalidReplicaID,
		},
		{
			name:    "nil uuid replica id",
			mutate:  func(c *Config) { c.Replica.ID = uuid.Nil.String() },
			wantErr: ErrInvalidReplicaID,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: ErrUnknownLogLevel,
		},
		{
			name:    "shards not a power of two",
			mutate:  func(c *Config) { c.Storage.Shards = 12 },
			wantErr: ErrInvalidShardCount,
		},
		{
			name:    "negative shards",
			mutate:  func(c *Config) { c.Storage.Shards = -4 },
			wantErr: ErrInvalidShardCount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tc.wantErr)
		})
	}

	var nilCfg *Config
	require.ErrorIs(t, nilCfg.Validate(), ErrConfigIsNil)
}
