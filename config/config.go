// Package config provides loading of kernel settings from YAML and TOML
// files and from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Static errors for config package
var (
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	ErrNilTarget         = errors.New("config target is nil")
)

// Config holds the kernel settings a host can supply from a file or the
// environment.
type Config struct {
	// DebugLevel is published into the kernel container at construction.
	DebugLevel int `yaml:"debug_level" toml:"debug_level" env:"DEBUG_LEVEL"`

	// ActivateInstance designates the kernel as the process-wide active
	// instance.
	ActivateInstance bool `yaml:"activate_instance" toml:"activate_instance" env:"ACTIVATE_INSTANCE"`
}

// LoadFile reads a YAML (.yaml/.yml) or TOML (.toml) config file.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	if err := FeedFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FeedFile populates target from a YAML or TOML file, chosen by extension.
func FeedFile(path string, target any) error {
	if target == nil {
		return ErrNilTarget
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return nil
}
