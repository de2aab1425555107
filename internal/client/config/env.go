package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "MEETUPS_"

// parseEnv overlays cfg with MEETUPS_* variables, e.g. MEETUPS_BACKEND or
// MEETUPS_S3_BUCKET. Unset variables leave fields untouched.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
