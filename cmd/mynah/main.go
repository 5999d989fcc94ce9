package main

import (
	"os"

	"github.com/simonhull/mynah/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.GenerateCmd())
	rootCmd.AddCommand(commands.CheckCmd())
	rootCmd.AddCommand(commands.TemplatesCmd())
	rootCmd.AddCommand(commands.WatchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
