package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"fskit/internal/config"
	"fskit/internal/logging"
	"fskit/pkg/fsys"
	"fskit/pkg/safepath"
)

var (
	// logOutput receives structured logs; stdout is reserved for results.
	logOutput io.Writer = os.Stderr
	// stdin feeds the write command.
	stdin io.Reader = os.Stdin
)

// environment is what every command runs against.
type environment struct {
	fs     fsys.FS
	cfg    config.Config
	logger *slog.Logger
}

func loadEnvironment() (*environment, error) {
	base := fsys.NewOS()

	cfg, cfgPath, err := loadConfig(base)
	if err != nil {
		return nil, err
	}

	if rootDir != "" {
		cfg.Root = rootDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(logOutput, level)

	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}

	env := &environment{fs: base, cfg: cfg, logger: logger}
	if cfg.Root != "" {
		v, err := safepath.New(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("cannot use root: %w", err)
		}
		env.fs = fsys.NewContained(base, v)
		logger.Debug("confined to root", "root", v.Root())
	}

	return env, nil
}

func loadConfig(fs fsys.FS) (config.Config, string, error) {
	if configPath != "" {
		cfg, err := config.Load(fs, configPath)
		return cfg, configPath, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("cannot determine working directory: %w", err)
	}

	return config.Discover(fs, wd)
}

// encodingOrDefault prefers the command flag over the configured encoding.
func (env *environment) encodingOrDefault(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	return env.cfg.Encoding
}

func printDryRun(action, path string) {
	fmt.Printf("DRY RUN: would %s %s\n", action, path)
}
