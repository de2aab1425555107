package config

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/meetups/internal/flagx"
	"gopkg.in/yaml.v3"
)

// parseYAML overlays cfg with the YAML file named by -c/-config. Keys absent
// from the file keep their current values; durations are written as "15s".
func parseYAML(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
