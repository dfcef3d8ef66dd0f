package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/livefir/tagcompiler"
)

// ConfigFileName is the project config file looked up in the working directory
const ConfigFileName = ".tagc.yaml"

// Config represents the tagc configuration
type Config struct {
	// ScopedCSS scopes component styles to the component tag
	ScopedCSS bool `yaml:"scoped_css"`

	// Minify compacts the generated CSS
	Minify bool `yaml:"minify"`

	// KeepWhitespace keeps whitespace-only text between tags
	KeepWhitespace bool `yaml:"keep_whitespace"`

	// Debug logs compiler decisions
	Debug bool `yaml:"debug"`

	// SelectorPrefix prefixes binding selectors (expr0, expr1, ...)
	SelectorPrefix string `yaml:"selector_prefix" validate:"required,alpha,max=32"`

	// Indent indents the emitted JSON; empty writes it on one line
	Indent string `yaml:"indent,omitempty" validate:"max=8"`

	// OutputDir receives compiled files; empty writes next to the sources
	OutputDir string `yaml:"output_dir,omitempty"`

	// Extension is the component file extension
	Extension string `yaml:"extension" validate:"required,startswith=."`

	// Version tracks the config file version for future migrations
	Version string `yaml:"version,omitempty"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		ScopedCSS:      true,
		SelectorPrefix: "expr",
		Extension:      ".tag",
		Version:        "1.0",
	}
}

var validate = validator.New()

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if multi := tagcompiler.ValidationToMultiError(err); len(multi) > 0 {
			return fmt.Errorf("invalid config: %w", multi)
		}
		return err
	}
	return nil
}

// LoadConfig loads the configuration from path. An empty path looks for
// ConfigFileName in the working directory; a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys absent from the file keep their defaults
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes the configuration to path
func SaveConfig(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
