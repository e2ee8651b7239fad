// Package config provides configuration management for jdiv.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/jinja-div/pkg/md"
)

// Config holds the jdiv configuration.
type Config struct {
	DefaultFormat  string `yaml:"default_format,omitempty"`
	OutputDir      string `yaml:"output_dir,omitempty"`
	Standalone     bool   `yaml:"standalone,omitempty"`
	HighlightStyle string `yaml:"highlight_style,omitempty"`
}

// Validate checks that configured values are usable.
func (c *Config) Validate() error {
	if c.DefaultFormat != "" {
		if _, err := md.ParseFormat(c.DefaultFormat); err != nil {
			return fmt.Errorf("default_format: %w", err)
		}
	}
	if c.OutputDir != "" {
		info, err := os.Stat(c.OutputDir)
		if err == nil && !info.IsDir() {
			return errors.New("output_dir must be a directory")
		}
	}
	return nil
}

// Format returns the configured default format, html when unset.
func (c *Config) Format() md.Format {
	f, err := md.ParseFormat(c.DefaultFormat)
	if err != nil {
		return md.FormatHTML
	}
	return f
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
func (c *Config) LoadFromEnv() {
	if format := os.Getenv("JDIV_FORMAT"); format != "" {
		c.DefaultFormat = format
	}
	if dir := os.Getenv("JDIV_OUTPUT_DIR"); dir != "" {
		c.OutputDir = dir
	}
	if style := os.Getenv("JDIV_HIGHLIGHT_STYLE"); style != "" {
		c.HighlightStyle = style
	}
}

// EnvVars lists the environment variables LoadFromEnv reads.
func EnvVars() []string {
	return []string{"JDIV_FORMAT", "JDIV_OUTPUT_DIR", "JDIV_HIGHLIGHT_STYLE"}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "jdiv", "config.yml")
	}

	// Fall back to ~/.config/jdiv/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".jdiv", "config.yml")
	}

	return filepath.Join(home, ".config", "jdiv", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
// A missing file yields an empty configuration.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}

// ResolvePath returns flagValue when set, otherwise DefaultConfigPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return DefaultConfigPath()
}
