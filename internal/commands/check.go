package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/mynah/internal/config"
	"github.com/simonhull/mynah/internal/filesystem"
	"github.com/simonhull/mynah/internal/inspect"
	"github.com/simonhull/mynah/internal/javalang"
	"github.com/simonhull/mynah/internal/output"
	"github.com/simonhull/mynah/internal/project"
)

// CheckCmd creates the check command
func CheckCmd() *cobra.Command {
	var (
		excludeExceptions bool
		excludeDeprecated bool
		excludeEnums      bool
		excludeAbstract   bool
		excludeClasses    string
		includeGetters    bool
	)

	cmd := &cobra.Command{
		Use:   "check [files-or-globs...]",
		Short: "Report classes that are missing toString()",
		Long: `Report classes that have renderable members but no toString().

Without arguments, mynah detects the Maven or Gradle project in the
working directory and checks its source roots. The exit status is 1
when any class needs a toString().

Examples:
  mynah check
  mynah check src/main/java
  mynah check --exclude-abstract=false
  mynah check --exclude-classes ".*Builder$"`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(".")
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			opts := cfg.CheckOptions()
			flags := cmd.Flags()
			if flags.Changed("exclude-exceptions") {
				opts.ExcludeExceptions = excludeExceptions
			}
			if flags.Changed("exclude-deprecated") {
				opts.ExcludeDeprecated = excludeDeprecated
			}
			if flags.Changed("exclude-enums") {
				opts.ExcludeEnums = excludeEnums
			}
			if flags.Changed("exclude-abstract") {
				opts.ExcludeAbstract = excludeAbstract
			}
			if flags.Changed("exclude-classes") {
				opts.ExcludeClassNames = excludeClasses
			}
			if flags.Changed("include-getters") {
				opts.Filter.IncludeGetters = includeGetters
			}

			if len(args) == 0 {
				info, err := project.Detect(".")
				if err != nil {
					output.Error(err.Error())
					os.Exit(1)
				}
				output.Verbose(fmt.Sprintf("Detected %s project at %s", info.Build, info.Root))
				args = info.SourceRoots
			}

			paths, err := filesystem.Resolve(args, filesystem.WalkOptions{})
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			if len(paths) == 0 {
				output.Warn("No Java files found")
				return
			}

			problems, checked, err := runCheck(paths, opts)
			for _, p := range problems {
				output.Warn(p.String())
			}
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			if len(problems) > 0 {
				output.Error(fmt.Sprintf("%d class(es) missing toString() across %d file(s)", len(problems), checked))
				os.Exit(1)
			}
			output.Success(fmt.Sprintf("No missing toString() in %d file(s)", checked))
		},
	}

	cmd.Flags().BoolVar(&excludeExceptions, "exclude-exceptions", true, "Skip classes extending Throwable")
	cmd.Flags().BoolVar(&excludeDeprecated, "exclude-deprecated", true, "Skip @Deprecated classes")
	cmd.Flags().BoolVar(&excludeEnums, "exclude-enums", false, "Skip enum declarations")
	cmd.Flags().BoolVar(&excludeAbstract, "exclude-abstract", false, "Skip abstract classes")
	cmd.Flags().StringVar(&excludeClasses, "exclude-classes", "", "Regex of class names to skip")
	cmd.Flags().BoolVar(&includeGetters, "include-getters", false, "Count getters as renderable members")

	return cmd
}

// runCheck inspects every path and collects the findings. Files with
// syntax errors are skipped, not reported.
func runCheck(paths []string, opts inspect.Options) ([]inspect.Problem, int, error) {
	parser, err := javalang.NewParser()
	if err != nil {
		return nil, 0, err
	}

	var problems []inspect.Problem
	checked := 0
	for _, path := range paths {
		f, err := parser.ParseFile(path)
		if err != nil {
			return problems, checked, err
		}
		if !f.Valid() {
			output.Verbose(fmt.Sprintf("%s: syntax errors, skipping", path))
			continue
		}

		found, err := inspect.Check(f, opts)
		if err != nil {
			return problems, checked, fmt.Errorf("%s: %w", path, err)
		}
		problems = append(problems, found...)
		checked++
	}
	return problems, checked, nil
}
