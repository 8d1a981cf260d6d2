// Package config loads gitv settings from .gitv.yaml and the environment.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/gitv/internal/core"
	"github.com/indaco/gitv/internal/manifest"
	"github.com/indaco/gitv/internal/tui"
)

// FileName is the configuration file looked up in the repository directory.
const FileName = ".gitv.yaml"

// Supported repository backends.
const (
	BackendExec  = "exec"
	BackendGoGit = "go-git"
)

// TaggerConfig is the identity recorded on annotated tags by the go-git
// backend. The exec backend uses git's own configuration.
type TaggerConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// Config is the main configuration structure for gitv.
type Config struct {
	Manifest string        `yaml:"manifest"`
	Field    string        `yaml:"field,omitempty"`
	Format   string        `yaml:"format,omitempty"`
	Prefix   string        `yaml:"prefix,omitempty"`
	Message  string        `yaml:"message,omitempty"`
	Backend  string        `yaml:"backend,omitempty"`
	Jobs     int           `yaml:"jobs,omitempty"`
	Theme    string        `yaml:"theme,omitempty"`
	Tagger   *TaggerConfig `yaml:"tagger,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Manifest == "" {
		c.Manifest = manifest.DefaultPath
	}
	if c.Prefix == "" {
		c.Prefix = core.DefaultTagPrefix
	}
	if c.Backend == "" {
		c.Backend = BackendExec
	}
	if c.Jobs == 0 {
		c.Jobs = 1
	}
}

// LoadConfigFn is replaced in tests.
var LoadConfigFn = loadConfig

// loadConfig reads dir/.gitv.yaml, applies environment overrides and fills
// defaults. A missing file is not an error.
func loadConfig(dir string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", FileName, err)
		}
	case os.IsNotExist(err):
		// fallback to defaults
	default:
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file settings with GITV_* variables.
func applyEnv(cfg *Config) error {
	if envPath := os.Getenv("GITV_MANIFEST"); envPath != "" {
		cleanPath := filepath.Clean(envPath)
		// Reject relative paths with traversal (use absolute paths instead)
		if hasParentElement(cleanPath) {
			return fmt.Errorf("invalid GITV_MANIFEST: path traversal not allowed, use absolute path instead")
		}
		cfg.Manifest = cleanPath
	}
	if prefix := os.Getenv("GITV_PREFIX"); prefix != "" {
		cfg.Prefix = prefix
	}
	if backend := os.Getenv("GITV_BACKEND"); backend != "" {
		cfg.Backend = backend
	}
	return nil
}

// hasParentElement reports whether any element of path is "..".
func hasParentElement(path string) bool {
	return slices.Contains(strings.Split(filepath.ToSlash(path), "/"), "..")
}

// Validate checks the values that cannot be decided later.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendExec, BackendGoGit:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendExec, BackendGoGit)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Format != "" && !manifest.Format(c.Format).IsValid() {
		return fmt.Errorf("unknown manifest format %q", c.Format)
	}
	if c.Theme != "" && !tui.IsValidTheme(c.Theme) {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	return nil
}
