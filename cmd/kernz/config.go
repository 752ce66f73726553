package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config describes the vector pipeline.
//
//	subtract: 2
//	input: [2, 3, 4]
type Config struct {
	Input    []int `yaml:"input"`
	Subtract int   `yaml:"subtract"`
}

// LoadConfig reads a YAML config file. An empty path yields the zero Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// resolve applies command-line overrides to the file config.
func (o *options) resolve(cmd *cobra.Command) (Config, error) {
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("subtract") {
		cfg.Subtract = o.subtract
	}
	return cfg, nil
}
