package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fskit/pkg/fileops"
)

var (
	encodingFlag string
	fromDir      string
)

// errNotFound is returned by find-up when no ancestor holds the file.
var errNotFound = errors.New("not found in any parent directory")

func buildExistsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exists [path]",
		Short: "Print true if a file or directory exists, false otherwise",
		Long: `Prints "true" or "false". Unreadable or otherwise inaccessible paths
report false; the command itself only fails on bad configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: runExists,
	}
}

func runExists(_ *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	fmt.Println(env.fs.Exists(args[0]))

	return nil
}

func buildRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [path]",
		Short: "Remove a file or a directory tree",
		Long: `Removes the path and, for directories, everything inside it.
A missing path is not an error.

Examples:
  fskit rm --dry-run ./build   # Preview
  fskit rm ./build             # Remove`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}
}

func runRemove(_ *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	if dryRun {
		printDryRun("remove", args[0])
		return nil
	}

	if err := fileops.Remove(env.fs, args[0]); err != nil {
		return err
	}
	env.logger.Info("removed", "path", args[0])

	return nil
}

func buildMkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir [path]",
		Short: "Create a directory and any missing parents",
		Args:  cobra.ExactArgs(1),
		RunE:  runMkdir,
	}
}

func runMkdir(_ *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	if dryRun {
		printDryRun("create directory", args[0])
		return nil
	}

	if err := fileops.EnsureDir(env.fs, args[0]); err != nil {
		return err
	}
	env.logger.Info("directory ensured", "path", args[0])

	return nil
}

func buildTouchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "touch [path]",
		Short: "Create an empty file and any missing parents",
		Long: `Creates an empty file if nothing exists at the path yet.
Existing files keep their content and timestamps.`,
		Args: cobra.ExactArgs(1),
		RunE: runTouch,
	}
}

func runTouch(_ *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	if dryRun {
		printDryRun("create file", args[0])
		return nil
	}

	if err := fileops.EnsureFile(env.fs, args[0]); err != nil {
		return err
	}
	env.logger.Info("file ensured", "path", args[0])

	return nil
}

func buildCatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat [path]",
		Short: "Print a file decoded from a text encoding",
		Long: `Prints the file converted to UTF-8. The source encoding comes from
--encoding, then the config file, then defaults to utf-8.

Examples:
  fskit cat notes.txt
  fskit cat --encoding shift_jis legacy.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runCat,
	}

	cmd.Flags().StringVar(&encodingFlag, "encoding", "", "Source text encoding (e.g. utf-8, latin1, shift_jis)")

	return cmd
}

func runCat(_ *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	text, err := fileops.ReadText(env.fs, args[0], env.encodingOrDefault(encodingFlag))
	if err != nil {
		return err
	}

	fmt.Print(text)

	return nil
}

func buildWriteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write [path]",
		Short: "Write stdin to a file, creating parent directories",
		Long: `Reads all of stdin and writes it to the path, replacing any existing
content. With --encoding the UTF-8 input is converted before writing.

Examples:
  echo hello | fskit write out/greeting.txt
  fskit write --encoding latin1 legacy.txt < notes.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runWrite,
	}

	cmd.Flags().StringVar(&encodingFlag, "encoding", "", "Target text encoding (e.g. utf-8, latin1, shift_jis)")

	return cmd
}

func runWrite(_ *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	if dryRun {
		printDryRun(fmt.Sprintf("write %d bytes to", len(data)), args[0])
		return nil
	}

	if err := fileops.WriteText(env.fs, args[0], string(data), env.encodingOrDefault(encodingFlag)); err != nil {
		return err
	}
	env.logger.Info("file written", "path", args[0], "bytes", len(data))

	return nil
}

func buildFindUpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find-up [name]",
		Short: "Search the current and parent directories for a file",
		Long: `Looks for the name in the start directory, then its parent, and so on up
to the filesystem root. Prints the first absolute path found.

Examples:
  fskit find-up go.mod
  fskit find-up --from ./src/pkg .editorconfig`,
		Args: cobra.ExactArgs(1),
		RunE: runFindUp,
	}

	cmd.Flags().StringVar(&fromDir, "from", ".", "Directory to start searching from")

	return cmd
}

func runFindUp(_ *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	found, ok := fileops.SearchFile(env.fs, args[0], fromDir)
	if !ok {
		return fmt.Errorf("%s: %w", args[0], errNotFound)
	}

	fmt.Println(found)

	return nil
}
