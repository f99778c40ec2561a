// Package config provides configuration loading and validation for
// preferlogger. Configuration can be supplied via a YAML file
// (.preferlogger.yaml), a TOML file (.preferlogger.toml) or programmatically
// for use in tests.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Wladim1r/preferlogger/internal/jsast"
	"github.com/Wladim1r/preferlogger/internal/rules"
	"github.com/Wladim1r/preferlogger/internal/scope"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = ".preferlogger.yaml"

// Config is the top-level configuration structure for preferlogger.
type Config struct {
	// Logger is the import target of the preferred logger. Required.
	// Example YAML:
	//   logger: utils/logger.js
	Logger string `yaml:"logger" toml:"logger"`

	// LoggerName is the identifier the logger is imported as.
	LoggerName string `yaml:"logger_name" toml:"logger_name"`

	// Base is the directory path-style logger targets are relative to,
	// itself relative to the working directory.
	Base string `yaml:"base" toml:"base"`

	// ImportStyle selects the inserted statement: "esm" or "commonjs".
	ImportStyle string `yaml:"import_style" toml:"import_style"`

	// SourceType is "module" or "script".
	SourceType string `yaml:"source_type" toml:"source_type"`

	// Globals lists names the environment provides, for example:
	//   globals:
	//     - console
	//     - process
	Globals []string `yaml:"globals" toml:"globals"`

	// Extensions lists the file extensions picked up when walking
	// directories.
	Extensions []string `yaml:"extensions" toml:"extensions"`

	// Exclude holds glob patterns matched against the base name of every
	// walked file and directory.
	Exclude []string `yaml:"exclude" toml:"exclude"`
}

// DefaultConfig returns a configuration with every optional field set.
// Logger stays empty and must be provided by the user.
func DefaultConfig() *Config {
	return &Config{
		LoggerName:  rules.DefaultLoggerName,
		ImportStyle: rules.ImportESM,
		SourceType:  scope.SourceModule,
		Extensions:  slices.Clone(jsast.Extensions),
		Exclude:     []string{"node_modules", ".git"},
	}
}

// Validate reports configuration errors that make analysis impossible.
func (c *Config) Validate() error {
	if c.Logger == "" {
		return fmt.Errorf("preferlogger: %w", rules.ErrMissingLogger)
	}
	switch c.ImportStyle {
	case "", rules.ImportESM, rules.ImportCommonJS:
	default:
		return fmt.Errorf("preferlogger: %w %q", rules.ErrImportStyle, c.ImportStyle)
	}
	switch c.SourceType {
	case "", scope.SourceModule, scope.SourceScript:
	default:
		return fmt.Errorf("preferlogger: unknown source type %q", c.SourceType)
	}
	return nil
}

// RuleOptions converts the configuration into rule options.
func (c *Config) RuleOptions(workDir string) rules.Options {
	return rules.Options{
		Logger:      c.Logger,
		LoggerName:  c.LoggerName,
		Base:        c.Base,
		WorkDir:     workDir,
		ImportStyle: c.ImportStyle,
	}
}

// ScopeOptions converts the configuration into scope analysis options.
func (c *Config) ScopeOptions() scope.Options {
	return scope.Options{
		SourceType: c.SourceType,
		Globals:    c.Globals,
	}
}

// Load reads a YAML or TOML config file from path and merges it on top of
// the default configuration. Missing fields keep their default values. The
// format is chosen by extension; anything but .toml is parsed as YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// A missing config file means defaults.
			return cfg, nil
		}
		return nil, fmt.Errorf("preferlogger: reading config %q: %w", path, err)
	}

	var file Config
	if filepath.Ext(path) == ".toml" {
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, fmt.Errorf("preferlogger: parsing config %q: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("preferlogger: parsing config %q: %w", path, err)
	}

	cfg.Merge(&file)
	return cfg, nil
}

// Merge copies every field set in other over c. Lists replace rather than
// extend, except Globals, which accumulate.
func (c *Config) Merge(other *Config) {
	if other.Logger != "" {
		c.Logger = other.Logger
	}
	if other.LoggerName != "" {
		c.LoggerName = other.LoggerName
	}
	if other.Base != "" {
		c.Base = other.Base
	}
	if other.ImportStyle != "" {
		c.ImportStyle = other.ImportStyle
	}
	if other.SourceType != "" {
		c.SourceType = other.SourceType
	}
	for _, g := range other.Globals {
		if !slices.Contains(c.Globals, g) {
			c.Globals = append(c.Globals, g)
		}
	}
	if len(other.Extensions) > 0 {
		c.Extensions = slices.Clone(other.Extensions)
	}
	if len(other.Exclude) > 0 {
		c.Exclude = slices.Clone(other.Exclude)
	}
}
