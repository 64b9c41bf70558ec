// Package config loads the optional YAML configuration file accepted by
// the deinflect CLI's serve subcommand. It has no bearing on the
// descriptor format itself (that stays JSON per the wire contract) —
// this is ambient CLI/server configuration only.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server's tunable defaults.
type Config struct {
	Addr       string `yaml:"addr"`
	Descriptor string `yaml:"descriptor"`
	MaxDepth   int    `yaml:"maxDepth"`
	Watch      bool   `yaml:"watch"`
}

// Default returns a Config with the engine's built-in defaults.
func Default() Config {
	return Config{Addr: ":8080"}
}

// Load reads and parses a YAML config file at path, starting from
// Default() so unset fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
