package config

import (
	"os"
	"strings"

	"replicaset/pkg/structs"

	"github.com/google/uuid"
)

var knownLogLevels = structs.NewSet("debug", "info", "warn", "error")

var defaultLogging = LoggingConfig{
	Level: "info",
}

var defaultStorage = StorageConfig{
	Shards: 64,
}

func Default() *Config {
	cfg := &Config{
		Logging: defaultLogging,
		Storage: defaultStorage,
	}
	cfg.Replica.PopulateDefaults()
	return cfg
}

func (c *ReplicaConfig) PopulateDefaults() {
	if strings.TrimSpace(c.ID) == "" {
		c.ID = uuid.New().String()
	}
}

// PopulateDefaults falls back to LOG_LEVEL, then to info.
func (c *LoggingConfig) PopulateDefaults() {
	if c.Level == "" {
		c.Level = os.Getenv("LOG_LEVEL")
	}
	c.Level = strings.ToLower(c.Level)
	if c.Level == "" {
		c.Level = defaultLogging.Level
	}
}

func (c *StorageConfig) PopulateDefaults() {
	if c.Shards == 0 {
		c.Shards = defaultStorage.Shards
	}
}

func (c *Config) PopulateDefaults() {
	c.Replica.PopulateDefaults()
	c.Logging.PopulateDefaults()
	c.Storage.PopulateDefaults()
}
