package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"fskit/pkg/filelock"
	"fskit/pkg/fsys"
	"fskit/pkg/uniquepath"
)

func buildUniqueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unique [path]",
		Short: "Print a path that does not collide with an existing entry",
		Long: `Prints the absolute path unchanged if nothing exists there. Otherwise
appends "-N" before the extension, where N is one more than the largest
number already used for that name in the directory:

  report.pdf, report-1.pdf, report-4.pdf exist  ->  report-5.pdf

Nothing is created, so two runs without creating the result print the same
path. Use claim to reserve the name.`,
		Args: cobra.ExactArgs(1),
		RunE: runUnique,
	}
}

func runUnique(_ *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	resolved, err := uniquepath.New(env.fs, uniquepath.WithLogger(env.logger)).Resolve(args[0])
	if err != nil {
		return err
	}

	fmt.Println(resolved)

	return nil
}

func buildClaimCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "claim [path]",
		Short: "Pick a unique path and create an empty file there",
		Long: `Resolves the path like unique and creates an empty file at the result.
The target directory is locked for the duration, and the file is created
exclusively, so concurrent claims never return the same path.

Examples:
  fskit claim ./exports/report.pdf
  fskit claim --dry-run ./exports/report.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: runClaim,
	}
}

func runClaim(_ *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	resolver := uniquepath.New(env.fs,
		uniquepath.WithLogger(env.logger),
		uniquepath.WithMaxClaimAttempts(env.cfg.ClaimAttempts),
	)

	if dryRun {
		resolved, err := resolver.Resolve(args[0])
		if err != nil {
			return err
		}
		printDryRun("create file", resolved)
		return nil
	}

	absPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("cannot resolve path: %w", err)
	}
	if c, ok := env.fs.(*fsys.Contained); ok {
		if err := c.CheckPath(absPath); err != nil {
			return err
		}
	}
	dir := filepath.Dir(absPath)
	if !env.fs.Exists(dir) {
		return fmt.Errorf("directory %s does not exist", dir)
	}

	lock, err := filelock.AcquireDir(dir)
	if err != nil {
		return err
	}
	defer lock.Close()

	claimed, err := resolver.Claim(absPath)
	if err != nil {
		return err
	}
	env.logger.Info("claimed", "path", claimed)

	fmt.Println(claimed)

	return nil
}
