// Package config loads topoview settings from a config file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/beetlebugorg/topo/internal/localpath"
)

// EnvPrefix prefixes environment overrides, e.g. TOPOVIEW_TOPOLOGY_FILE.
const EnvPrefix = "TOPOVIEW"

// Config stores all configuration of the application.
type Config struct {
	Topology TopologyConfig `mapstructure:"topology"`
	Log      LogConfig      `mapstructure:"log"`
}

// TopologyConfig locates the topology manifest.
type TopologyConfig struct {
	// File is a manifest path. When blank the manifest is read from MapFile.
	File string `mapstructure:"file"`

	// MapFile is a map archive holding topology.tpl and the layer geometry.
	MapFile string `mapstructure:"mapfile"`

	// MaxLayers caps how many manifest entries are loaded.
	MaxLayers int `mapstructure:"maxlayers"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultMaxLayers matches the capacity of the layer store.
const DefaultMaxLayers = 20

// Load reads configuration from configPath, or from topoview.yaml in the
// working directory or ~/.config/topoview when configPath is empty. A missing
// config file is not an error; defaults and environment variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/topoview")
		v.SetConfigName("topoview")
		v.SetConfigType("yaml")
	}

	v.SetDefault("topology.file", "")
	v.SetDefault("topology.mapfile", "")
	v.SetDefault("topology.maxlayers", DefaultMaxLayers)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Topology.MaxLayers <= 0 {
		cfg.Topology.MaxLayers = DefaultMaxLayers
	}

	return &cfg, nil
}

// TopologyFile returns the expanded manifest path, or "" when unset.
func (c *Config) TopologyFile() string {
	return localpath.Expand(c.Topology.File)
}

// MapFile returns the expanded map archive path, or "" when unset.
func (c *Config) MapFile() string {
	return localpath.Expand(c.Topology.MapFile)
}
