// Package config handles run configuration: file paths, indentation
// parameters, and the global config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the explicit configuration passed into the driver and
// formatter. Nothing reads ambient state below the CLI layer.
type Config struct {
	Input      string `yaml:"input"`       // Input .bib file
	Output     string `yaml:"output"`      // Output .bib file
	PreIndent  int    `yaml:"pre_indent"`  // Spaces before the field name
	PostIndent int    `yaml:"post_indent"` // Field name column width
	Mailto     string `yaml:"mailto"`      // Crossref polite-pool contact

	// FormatOnly skips all external resolution. CLI-only, never read
	// from the config file.
	FormatOnly bool `yaml:"-"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "bibdoi"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Input:      "input.bib",
		Output:     "output.bib",
		PreIndent:  4,
		PostIndent: 16,
	}
}

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bibdoi/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// Load returns the defaults overlaid with the global config file.
// A missing file is not an error; the defaults stand.
func Load() (Config, error) {
	cfg := Default()

	path := GlobalConfigPath()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading global config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing global config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the run cannot proceed with.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input file not set")
	}
	if c.Output == "" {
		return fmt.Errorf("output file not set")
	}
	if c.PreIndent < 0 {
		return fmt.Errorf("pre_indent must be non-negative, got %d", c.PreIndent)
	}
	if c.PostIndent < 0 {
		return fmt.Errorf("post_indent must be non-negative, got %d", c.PostIndent)
	}
	return nil
}
