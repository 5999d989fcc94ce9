package commands

import (
	"github.com/simonhull/mynah"
	"github.com/simonhull/mynah/internal/output"
	"github.com/spf13/cobra"
)

// RootCmd creates and returns the root command for the mynah CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "mynah",
		Short: "Template-driven toString() generation for Java sources",
		Long: `Mynah writes the toString() methods your Java classes are missing.

Driven by editable templates, mynah helps you:
• Generate toString() from fields and getters, without hand-rolling it
• Rewrite sources in place, with diffs, dry runs, and safe batch writes
• Find classes whose toString() has drifted behind their fields

Learn more: https://github.com/simonhull/mynah`,
		Version: mynah.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	return cmd
}
