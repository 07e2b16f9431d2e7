package config

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigIsNil
	}
	if err := c.Replica.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	return nil
}

func (c *ReplicaConfig) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrMissingReplicaID
	}
	if id, err := uuid.Parse(c.ID); err != nil || id == uuid.Nil {
		return fmt.Errorf("%w: %q", ErrInvalidReplicaID, c.ID)
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	if !knownLogLevels.Contains(c.Level) {
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, c.Level)
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	if c.Shards <= 0 || c.Shards&(c.Shards-1) != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidShardCount, c.Shards)
	}
	return nil
}
