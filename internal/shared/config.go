package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Similarity SimilarityConfig `toml:"similarity"`
	Export     ExportConfig     `toml:"export"`
	Database   DatabaseConfig   `toml:"database"`
}

// SimilarityConfig contains connection settings for the AudioMuse-AI service.
type SimilarityConfig struct {
	Server         string `toml:"server"`          // host:port of the AudioMuse-AI instance
	TimeoutSeconds int    `toml:"timeout_seconds"` // per-request timeout
}

// ExportConfig contains defaults for the batch similarity export.
type ExportConfig struct {
	Count      int     `toml:"count"`       // similar tracks requested per song
	NumWorkers int     `toml:"num_workers"` // concurrent export workers
	RateLimit  float64 `toml:"rate_limit"`  // requests per second against the service
}

// DatabaseConfig contains resolve-cache database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
