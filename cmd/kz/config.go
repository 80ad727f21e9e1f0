package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const defaultAPIBaseURL = "http://localhost:8000"

type cliConfig struct {
	APIBaseURL string `yaml:"api_base_url" envconfig:"API_BASE_URL"`
}

// loadConfig layers configuration: defaults, then ~/.config/kz/config.yaml,
// then KZ_* environment variables.
func loadConfig() (*cliConfig, error) {
	cfg := cliConfig{
		APIBaseURL: defaultAPIBaseURL,
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "kz", "config.yaml")
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := envconfig.Process("KZ", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &cfg, nil
}
