package config

import (
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Replica ReplicaConfig `yaml:"replica"`
	Logging LoggingConfig `yaml:"logging"`
	Storage StorageConfig `yaml:"storage"`
}

type ReplicaConfig struct {
	// ID must be unique among all replicas that exchange snapshots.
	ID string `yaml:"id"`
}

// UUID returns the parsed replica id, or uuid.Nil when ID is not a uuid.
func (c *ReplicaConfig) UUID() uuid.UUID {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type StorageConfig struct {
	Shards int `yaml:"shards"`
}

// Read parses the YAML file at path. Defaults are not applied.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads path, fills in defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	cfg.PopulateDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
