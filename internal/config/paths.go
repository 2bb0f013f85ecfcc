package config

import (
	"path/filepath"
	"time"
)

// Resolve anchors p at BaseDir unless it is already absolute.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	base := c.BaseDir
	if base == "" {
		base = "."
	}
	abs, err := filepath.Abs(filepath.Join(base, p))
	if err != nil {
		return filepath.Join(base, p)
	}
	return abs
}

// SourceRoot is the absolute path of the vendored checkout.
func (c *Config) SourceRoot() string { return c.Resolve(c.Source.Root) }

// SourceDir is the absolute path of the classified source tree.
func (c *Config) SourceDir() string {
	return filepath.Join(c.SourceRoot(), filepath.FromSlash(c.Source.SrcDir))
}

// TargetPath is the absolute path of t.
func (c *Config) TargetPath(t Target) string { return c.Resolve(t.Path) }

// GeneratorDir is the working directory of the binding generator.
func (c *Config) GeneratorDir() string { return c.Resolve(c.Generator.Dir) }

// DebounceDuration returns the parsed watch debounce.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(w.Debounce)
	return d
}

// RefreshEvery returns the periodic refresh interval, zero when disabled.
func (w WatchConfig) RefreshEvery() time.Duration {
	d, _ := time.ParseDuration(w.RefreshInterval)
	return d
}
