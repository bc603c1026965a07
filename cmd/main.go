package main

import (
	"os"
)

func main() {
	rootCmd := buildRootCommand()
	rootCmd.AddCommand(buildExistsCommand())
	rootCmd.AddCommand(buildRemoveCommand())
	rootCmd.AddCommand(buildMkdirCommand())
	rootCmd.AddCommand(buildTouchCommand())
	rootCmd.AddCommand(buildCatCommand())
	rootCmd.AddCommand(buildWriteCommand())
	rootCmd.AddCommand(buildFindUpCommand())
	rootCmd.AddCommand(buildUniqueCommand())
	rootCmd.AddCommand(buildClaimCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
