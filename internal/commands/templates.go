package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/mynah/internal/config"
	"github.com/simonhull/mynah/internal/output"
	"github.com/simonhull/mynah/internal/templates"
)

// TemplatesCmd creates the templates command group
func TemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List, show, and export toString() templates",
		Long: `Manage the templates toString() methods are rendered from.

Built-in templates ship inside the binary. Your own .tmpl files in the
configured templates_dir (or --templates-dir) are picked up alongside
them and may shadow built-ins by name.

Examples:
  mynah templates list
  mynah templates show default
  mynah templates export ./templates`,
	}

	cmd.AddCommand(templatesListCmd())
	cmd.AddCommand(templatesShowCmd())
	cmd.AddCommand(templatesExportCmd())

	return cmd
}

func templatesListCmd() *cobra.Command {
	var templatesDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Run: func(cmd *cobra.Command, args []string) {
			registry := templates.NewRegistry(userTemplatesDir(cmd, templatesDir))
			all, err := registry.List()
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			out := cmd.OutOrStdout()
			for _, t := range all {
				origin := "(built-in)"
				if !t.BuiltIn {
					origin = "(user)"
				}
				fmt.Fprintln(out, titleStyle.Render(t.Name)+" "+mutedStyle.Render(origin))
				if t.Description != "" {
					fmt.Fprintln(out, "    "+t.Description)
				}
			}
		},
	}

	cmd.Flags().StringVar(&templatesDir, "templates-dir", "", "Directory with user templates")
	return cmd
}

func templatesShowCmd() *cobra.Command {
	var templatesDir string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a template's source",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			registry := templates.NewRegistry(userTemplatesDir(cmd, templatesDir))
			t, err := registry.Get(args[0])
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			out := cmd.OutOrStdout()
			origin := "(built-in)"
			if !t.BuiltIn {
				origin = "(user)"
			}
			fmt.Fprintln(out, titleStyle.Render(t.Name)+" "+mutedStyle.Render(origin))
			if t.Description != "" {
				fmt.Fprintln(out, mutedStyle.Render(t.Description))
			}
			for _, imp := range t.Imports {
				line := "requires import " + imp.Path
				if imp.When != "" && imp.When != "always" {
					line += " (only when " + imp.When + " are rendered)"
				}
				fmt.Fprintln(out, mutedStyle.Render(line))
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, t.Source)
		},
	}

	cmd.Flags().StringVar(&templatesDir, "templates-dir", "", "Directory with user templates")
	return cmd
}

func templatesExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the built-in templates to a directory for editing",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			registry := templates.NewRegistry("")
			if err := registry.Export(args[0]); err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			output.Success(fmt.Sprintf("Exported built-in templates to %s", args[0]))
			if config.HasProjectConfig(".") {
				output.Info("Point templates_dir in .mynah.yml at it to use your edits")
			} else {
				output.Info("Create a .mynah.yml with templates_dir (or pass --templates-dir) to use your edits")
			}
		},
	}

	return cmd
}

// userTemplatesDir resolves the template directory, flag over config.
func userTemplatesDir(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("templates-dir") {
		return flagValue
	}
	cfg, err := config.Load(".")
	if err != nil {
		return ""
	}
	return cfg.TemplatesDir
}
