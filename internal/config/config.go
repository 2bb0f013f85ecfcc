package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "glueregen.yaml"

// Config represents the glueregen configuration.
type Config struct {
	Version   string          `yaml:"version"`
	Source    SourceConfig    `yaml:"source"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Targets   []Target        `yaml:"targets"`
	Generator GeneratorConfig `yaml:"generator"`
	Watch     WatchConfig     `yaml:"watch"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty"`

	// File is the loaded configuration file; empty when defaults are in use.
	File string `yaml:"-"`
	// BaseDir anchors every relative path in the configuration.
	BaseDir string `yaml:"-"`
}

// SourceConfig describes the vendored source tree.
type SourceConfig struct {
	Root                     string   `yaml:"root"`        // vendored checkout, e.g. cxx_impl
	SrcDir                   string   `yaml:"src_dir"`     // relative to Root
	CAPIDir                  string   `yaml:"capi_dir"`    // relative to SrcDir
	CAPISuffix               string   `yaml:"capi_suffix"` // e.g. _c.h
	ImplementationExtensions []string `yaml:"implementation_extensions,omitempty"`
	HeaderExtensions         []string `yaml:"header_extensions,omitempty"`
	Exclude                  []string `yaml:"exclude,omitempty"` // extra directory names to skip
}

// RefreshConfig controls updating the vendored checkout from its remote.
type RefreshConfig struct {
	Skip               bool        `yaml:"skip"`
	Remote             string      `yaml:"remote"`
	Branch             string      `yaml:"branch,omitempty"` // empty: remote HEAD
	HardResetOnDiverge bool        `yaml:"hard_reset_on_diverge"`
	Auth               *AuthConfig `yaml:"auth,omitempty"`
	Retry              RetryConfig `yaml:"retry"`
}

// GeneratorConfig describes the external binding generator.
type GeneratorConfig struct {
	Skip    bool     `yaml:"skip"`
	Command []string `yaml:"command"`
	Dir     string   `yaml:"dir"` // working directory, relative to BaseDir
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce        string `yaml:"debounce"`
	RefreshInterval string `yaml:"refresh_interval,omitempty"` // empty disables periodic refresh
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path,omitempty"`
}

// Load reads, expands and validates the configuration at configPath.
// .env and .env.local next to the file are loaded first; they never
// override variables already present in the environment.
func Load(configPath string) (*Config, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, abs)
		}
		return nil, fmt.Errorf("stat config file: %w", err)
	}

	loadEnvFiles(filepath.Dir(abs))

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, abs, err)
	}
	cfg.File = abs
	cfg.BaseDir = filepath.Dir(abs)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configPath, falling back to Default rooted at the
// file's directory when the file does not exist.
func LoadOrDefault(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, err
	}
	abs, absErr := filepath.Abs(configPath)
	if absErr != nil {
		return nil, fmt.Errorf("resolve config path: %w", absErr)
	}
	loadEnvFiles(filepath.Dir(abs))
	cfg = Default()
	cfg.BaseDir = filepath.Dir(abs)
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}
