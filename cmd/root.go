package main

import (
	"github.com/spf13/cobra"
)

var (
	dryRun     bool
	verbose    bool
	configPath string
	rootDir    string
	logLevel   string
)

func buildRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fskit",
		Short: "Small filesystem helpers: probe, create, read, write, search and pick unique names",
		Long: `fskit wraps everyday filesystem chores in one binary.

Commands:
  exists    Prints whether a path exists (never fails)
  rm        Removes a file or directory tree
  mkdir     Creates a directory and its parents if missing
  touch     Creates an empty file and its parents if missing
  cat       Prints a file decoded from a text encoding
  write     Writes stdin to a file, creating parents
  find-up   Searches the current and parent directories for a file
  unique    Prints a path that does not collide with existing entries
  claim     Like unique, but also creates the file under a directory lock

Examples:
  # Where would a new export go without overwriting anything?
	  fskit unique ./exports/report.pdf

  # Reserve that name so a concurrent run cannot take it
	  fskit claim ./exports/report.pdf

  # Find the nearest project config
	  fskit find-up go.mod

  # Read a legacy Latin-1 file
	  fskit cat --encoding latin1 ./legacy/readme.txt

Configuration:
  Settings are read from the nearest .fskit.yaml in the current directory or
  any parent, or from --config. Flags override file values.

Safety:
  With --root (or "root:" in the config) every path must resolve inside that
  directory, symlinks included.`,
	}

	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without making changes")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default: nearest .fskit.yaml)")
	cmd.PersistentFlags().StringVar(&rootDir, "root", "", "Confine all operations to this directory")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return cmd
}
