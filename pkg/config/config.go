// Package config loads the studio's YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig is the studio's file-based configuration. CLI flags and
// environment variables override these values.
type AppConfig struct {
	Port        int    `yaml:"port"`
	DatabaseURL string `yaml:"databaseUrl"`
	EventBus    string `yaml:"eventBus"`
	CacheURL    string `yaml:"cacheUrl"`
	UploadDir   string `yaml:"uploadDir"`
	LogLevel    string `yaml:"logLevel"`
}

// Default returns the configuration used when no file is present.
func Default() AppConfig {
	return AppConfig{
		Port:        9090,
		DatabaseURL: "file://./data",
		EventBus:    "gochannel",
		CacheURL:    "memory",
		UploadDir:   "./uploads",
		LogLevel:    "info",
	}
}

// Load reads the config file at path over the defaults. A missing file is
// not an error; the defaults apply.
func Load(path string) (AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}
