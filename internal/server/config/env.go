package config

import (
	"github.com/caarlos0/env/v11"
)

// parseEnv overlays values from environment variables named by the env tags
// on Config. Unset variables leave the current value untouched. Malformed
// values (e.g. an unparsable duration) panic, like a malformed JSON file.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
