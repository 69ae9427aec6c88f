package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile overlays the YAML document at path onto cfg. Keys absent from the
// document keep their current values.
//
// Example document:
//
//	base_dir: /srv/painel
//	sidra:
//	  timeout: 45s
//	  max_attempts: 2
//	log:
//	  format: json
func LoadFile(path string, cfg *Config) error {
	// #nosec G304 -- path comes from the -config flag of the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}
