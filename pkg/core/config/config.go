// ============================================================================
// grab - scraping script interpreter
// ============================================================================
//
// Package:     config
// Description: Typed configuration loaded from TOML or YAML files
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
)

// DefaultUserAgent is sent with every page request unless configured
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Fetch   FetchConfig   `toml:"fetch" yaml:"fetch"`
	Output  OutputConfig  `toml:"output" yaml:"output"`

	// Source is the file the configuration was read from, empty for defaults
	Source string `toml:"-" yaml:"-"`
}

// GeneralConfig holds logging and terminal settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
	LogFile   string `toml:"log_file" yaml:"log_file"`
	NoColor   bool   `toml:"no_color" yaml:"no_color"`
}

// FetchConfig holds page retrieval settings
type FetchConfig struct {
	Timeout      Duration `toml:"timeout" yaml:"timeout"`
	UserAgent    string   `toml:"user_agent" yaml:"user_agent"`
	CacheEnabled bool     `toml:"cache_enabled" yaml:"cache_enabled"`
	CachePath    string   `toml:"cache_path" yaml:"cache_path"`
	CacheTTL     Duration `toml:"cache_ttl" yaml:"cache_ttl"`
	MemoryItems  int      `toml:"memory_items" yaml:"memory_items"`
}

// OutputConfig holds settings for files written by scripts
type OutputConfig struct {
	Dir string `toml:"dir" yaml:"dir"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got %v", value.Tag)
	}
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns the configuration used when no file is found
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		code := graberror.CodeIO
		if os.IsNotExist(err) {
			code = graberror.CodeNotFound
		}
		return nil, graberror.Wrap(err, "config file not readable: "+path).
			WithCode(code).
			WithOperation("config.Load")
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, parseError(path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, parseError(path, err)
		}
	default:
		return nil, graberror.Newf("unsupported config format %q", filepath.Ext(path)).
			WithCode(graberror.CodeConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.Source = path
	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseError(path string, err error) error {
	return graberror.Wrap(err, "failed to parse config").
		WithCode(graberror.CodeConfig).
		WithOperation("config.Load").
		WithDetail("path", path)
}

// DefaultPaths returns the locations LoadFromEnv searches, in order
func DefaultPaths() []string {
	paths := []string{"./grab.toml", "./grab.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "grab", "config.toml"))
	}
	return paths
}

// LoadFromEnv loads configuration from the GRAB_CONFIG environment
// variable, then from the default locations. Without any file the defaults
// apply.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv("GRAB_CONFIG"); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	cfg := Default()
	cfg.applyEnvOverrides()
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}

	// Fetch
	if c.Fetch.Timeout.Duration == 0 {
		c.Fetch.Timeout.Duration = 30 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}
	if c.Fetch.CachePath == "" {
		c.Fetch.CachePath = defaultCachePath()
	}
	if c.Fetch.CacheTTL.Duration == 0 {
		c.Fetch.CacheTTL.Duration = time.Hour
	}
	if c.Fetch.MemoryItems == 0 {
		c.Fetch.MemoryItems = 128
	}

	// Output
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "grab-pages.db")
	}
	return filepath.Join(home, ".cache", "grab", "pages.db")
}

// applyEnvOverrides lets the environment win over file values
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GRAB_LOG_LEVEL"); v != "" {
		c.General.LogLevel = v
	}
	if v := os.Getenv("GRAB_CACHE_PATH"); v != "" {
		c.Fetch.CachePath = v
	}
	if v := os.Getenv("GRAB_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.LogFile = os.ExpandEnv(c.General.LogFile)
	c.Fetch.CachePath = os.ExpandEnv(c.Fetch.CachePath)
	c.Output.Dir = os.ExpandEnv(c.Output.Dir)
}

// Validate checks levels, formats and durations
func (c *Config) Validate() error {
	if _, err := grablog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel, err)
	}
	if _, err := grablog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat, err)
	}
	if c.Fetch.Timeout.Duration < 0 {
		return invalid("fetch.timeout", c.Fetch.Timeout.String(), nil)
	}
	if c.Fetch.CacheTTL.Duration < 0 {
		return invalid("fetch.cache_ttl", c.Fetch.CacheTTL.String(), nil)
	}
	if c.Fetch.MemoryItems < 0 {
		return invalid("fetch.memory_items", fmt.Sprint(c.Fetch.MemoryItems), nil)
	}
	return nil
}

func invalid(key, value string, cause error) error {
	msg := fmt.Sprintf("invalid value %q for %s", value, key)
	var err *graberror.Error
	if cause != nil {
		err = graberror.Wrap(cause, msg)
	} else {
		err = graberror.New(msg)
	}
	return err.WithCode(graberror.CodeConfig).
		WithOperation("config.Validate").
		WithDetail("key", key)
}
