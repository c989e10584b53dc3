// Package config loads daemon configuration from config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Command describes an external worker command line.
type Command struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Config is the daemon configuration.
type Config struct {
	GatewayPort int     `toml:"gateway_port"`
	DataDir     string  `toml:"data_dir"`
	PluginsDir  string  `toml:"plugins_dir"`
	Debug       bool    `toml:"debug"`
	Capture     Command `toml:"capture"`
	Bridge      Command `toml:"bridge"`
}

// Default returns the standard configuration rooted at dataDir.
func Default(dataDir string) Config {
	return Config{
		GatewayPort: 6301,
		DataDir:     dataDir,
		PluginsDir:  filepath.Join(dataDir, "plugins"),
	}
}

// Dir resolves the configuration directory: WITNESS_CONFIG_DIR when
// set, otherwise the platform user config dir.
func Dir() string {
	if dir := os.Getenv("WITNESS_CONFIG_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "witness")
}

// Load reads config.toml from dir, falling back to defaults when the
// file does not exist. Unset fields keep their default values.
func Load(dir string) (Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config.toml: %w", err)
	}
	if cfg.GatewayPort == 0 {
		cfg.GatewayPort = Default(dir).GatewayPort
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dir
	}
	if cfg.PluginsDir == "" {
		cfg.PluginsDir = filepath.Join(cfg.DataDir, "plugins")
	}
	return cfg, nil
}

// Save writes the configuration back to dir/config.toml.
func Save(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.toml"), data, 0644)
}
