// Package config loads the oidauthd YAML configuration file into the
// typed shape internal/ports declares, by reading the file and passing
// it to yaml.Unmarshal.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sufield/oidauth/internal/ports"
)

// Loader reads a YAML configuration file from the local filesystem.
type Loader struct{}

// New constructs a Loader.
func New() *Loader {
	return &Loader{}
}

// Load reads and parses the configuration file at path.
func (l *Loader) Load(ctx context.Context, path string) (*ports.Config, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304 - path is operator-supplied at startup, not request-derived
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ports.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

var _ ports.ConfigLoader = (*Loader)(nil)
