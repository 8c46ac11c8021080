// Package config reads the mdrender.yaml configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ezerfernandes/mdrender/internal/blocks"
	"github.com/ezerfernandes/mdrender/internal/pipeline"
	"gopkg.in/yaml.v3"
)

// Filename is the name of the configuration file looked up in a directory.
const Filename = "mdrender.yaml"

// DefaultAddr is the address the serve command listens on.
const DefaultAddr = "127.0.0.1:3000"

// Config is the content of a configuration file.
type Config struct {
	Format     string      `yaml:"format"`
	Standalone bool        `yaml:"standalone"`
	Head       string      `yaml:"head,omitempty"`
	Body       string      `yaml:"body,omitempty"`
	Errors     string      `yaml:"errors"`
	Shell      ShellConfig `yaml:"shell"`
	Serve      ServeConfig `yaml:"serve"`
}

// ShellConfig configures Shell blocks.
type ShellConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// ServeConfig configures the serve command.
type ServeConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

// GetTimeout returns the parsed timeout (default: blocks.DefaultShellTimeout).
func (c ShellConfig) GetTimeout() (time.Duration, error) {
	if len(c.Timeout) == 0 {
		return blocks.DefaultShellTimeout, nil
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid shell timeout: %w", err)
	}

	if d <= 0 {
		return 0, fmt.Errorf("%w: %s", errTimeout, c.Timeout)
	}

	return d, nil
}

var errTimeout = errors.New("shell timeout must be positive")

// DefaultConfig returns the configuration used when there is no file.
func DefaultConfig() *Config {
	return &Config{
		Format: pipeline.FormatHTML.String(),
		Errors: pipeline.FailFast.String(),
		Shell:  ShellConfig{Dir: "."},
		Serve:  ServeConfig{Addr: DefaultAddr, Watch: true},
	}
}

// Load reads the configuration file at path. A missing file yields the
// default configuration.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if len(path) == 0 {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// LoadFromDir reads the configuration file of a directory.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, Filename))
}

// Options converts the configuration to rendering options.
func (c *Config) Options() (pipeline.Options, error) {
	var opts pipeline.Options

	format, err := pipeline.ParseFormat(c.Format)
	if err != nil {
		return opts, err
	}

	policy, err := pipeline.ParseErrorPolicy(c.Errors)
	if err != nil {
		return opts, err
	}

	timeout, err := c.Shell.GetTimeout()
	if err != nil {
		return opts, err
	}

	opts = pipeline.Options{
		Format:     format,
		Standalone: c.Standalone,
		Head:       c.Head,
		Body:       c.Body,
		Errors:     policy,
		Shell: pipeline.ShellOptions{
			Enabled: c.Shell.Enabled,
			Dir:     c.Shell.Dir,
			Timeout: timeout,
		},
	}

	return opts, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
