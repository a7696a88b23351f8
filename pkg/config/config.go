// Package config loads expdeploy configuration.
//
// Two sources are combined: the process environment merged with a local
// .env file (see LoadEnv), and optional project defaults stored in
// .expdeploy/config.yaml. Precedence: CLI flags > environment > project
// config > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name for expdeploy project configuration
	ConfigDir = ".expdeploy"
	// ConfigFile is the name of the configuration file
	ConfigFile = "config.yaml"
	// ConfigPath is the full path to the config file relative to project root
	ConfigPath = ConfigDir + "/" + ConfigFile
)

// Author filters for the pull request list
const (
	AuthorsMine = "mine"
	AuthorsAll  = "all"
)

// Sources reported by the Resolve* helpers
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceConfig  = "config"
	SourceDefault = "default"
)

// ProjectConfig holds per-repository defaults shared by a team.
type ProjectConfig struct {
	// Workflow is the default workflow to dispatch: numeric ID or file name (e.g., "deploy-experimental.yml")
	Workflow string `yaml:"workflow,omitempty"`

	// LogLevel is the default log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level,omitempty"`

	// LogFormat is the default log encoding (console, json)
	LogFormat string `yaml:"log_format,omitempty"`

	// Authors selects which open pull requests are offered: "mine" (default) or "all"
	Authors string `yaml:"authors,omitempty"`
}

// Load loads the project configuration from the given directory.
// It searches for .expdeploy/config.yaml in the directory and its parents.
//
// If no config file is found, it returns a zero config and nil error.
// If a config file is found but cannot be parsed, it returns an error.
func Load(dir string) (*ProjectConfig, error) {
	configPath, err := findConfigPath(dir)
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return &ProjectConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	switch cfg.Authors {
	case "", AuthorsMine, AuthorsAll:
	default:
		return nil, fmt.Errorf("invalid authors %q in %s: want %q or %q", cfg.Authors, configPath, AuthorsMine, AuthorsAll)
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads the project configuration from the current working directory.
func LoadFromCurrentDir() (*ProjectConfig, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return Load(dir)
}

// findConfigPath searches for .expdeploy/config.yaml in dir and its parent directories.
// It returns the full path to the config file, or empty string if not found.
func findConfigPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for {
		configPath := filepath.Join(absDir, ConfigPath)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(absDir)
		if parentDir == absDir {
			return "", nil
		}
		absDir = parentDir
	}
}

// ResolveString returns the effective value for a string setting.
// Precedence: cliValue > envValue > configValue > defaultValue.
// Returns the effective value and its source.
func (c *ProjectConfig) ResolveString(cliValue, envValue, configValue, defaultValue string) (string, string) {
	if cliValue != "" {
		return cliValue, SourceCLI
	}
	if envValue != "" {
		return envValue, SourceEnv
	}
	if configValue != "" {
		return configValue, SourceConfig
	}
	return defaultValue, SourceDefault
}

// ResolveWorkflow returns the workflow to dispatch and its source.
// An empty result means the workflow is chosen interactively.
func (c *ProjectConfig) ResolveWorkflow(cliValue, envValue string) (string, string) {
	return c.ResolveString(cliValue, envValue, c.Workflow, "")
}

// ResolveLogLevel returns the effective log level and its source.
func (c *ProjectConfig) ResolveLogLevel(cliValue, envValue, defaultValue string) (string, string) {
	return c.ResolveString(cliValue, envValue, c.LogLevel, defaultValue)
}

// ResolveLogFormat returns the effective log format and its source.
func (c *ProjectConfig) ResolveLogFormat(cliValue, envValue, defaultValue string) (string, string) {
	return c.ResolveString(cliValue, envValue, c.LogFormat, defaultValue)
}

// IncludeAllAuthors reports whether pull requests from every author are listed.
// The --all-authors flag can only widen the list.
func (c *ProjectConfig) IncludeAllAuthors(cliAllAuthors bool) bool {
	return cliAllAuthors || c.Authors == AuthorsAll
}
