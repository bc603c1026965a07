// Package config loads fskit settings from a .fskit.yaml file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fskit/internal/logging"
	"fskit/pkg/charset"
	"fskit/pkg/fileops"
	"fskit/pkg/fsys"
	"fskit/pkg/uniquepath"
)

// FileName is the configuration file looked up by Discover.
const FileName = ".fskit.yaml"

// ErrInvalid marks a configuration that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings shared by all commands.
type Config struct {
	// Encoding is the default text encoding for cat and write.
	Encoding string `yaml:"encoding"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Root, when set, confines every operation to this directory.
	// A relative root is taken relative to the config file.
	Root string `yaml:"root"`
	// ClaimAttempts bounds retries of the claim command.
	ClaimAttempts int `yaml:"claim_attempts"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Encoding:      charset.Default,
		LogLevel:      "info",
		ClaimAttempts: uniquepath.DefaultMaxClaimAttempts,
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := charset.Lookup(c.Encoding); err != nil {
		return fmt.Errorf("%w: encoding: %w", ErrInvalid, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
	}
	if c.ClaimAttempts < 1 {
		return fmt.Errorf("%w: claim_attempts must be at least 1, got %d", ErrInvalid, c.ClaimAttempts)
	}

	return nil
}

// Load reads path and overlays it on Defaults. Unknown keys are rejected.
func Load(fs fsys.FS, path string) (Config, error) {
	cfg := Defaults()

	data, err := fileops.ReadFile(fs, path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}

	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg.Root = filepath.Join(filepath.Dir(absPath), cfg.Root)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Discover searches startDir and its parents for FileName and loads the
// first one found. Without a file it returns Defaults and an empty path.
func Discover(fs fsys.FS, startDir string) (Config, string, error) {
	path, ok := fileops.SearchFile(fs, FileName, startDir)
	if !ok {
		return Defaults(), "", nil
	}

	cfg, err := Load(fs, path)
	if err != nil {
		return cfg, path, err
	}

	return cfg, path, nil
}
