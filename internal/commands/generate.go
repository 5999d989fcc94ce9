package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/simonhull/mynah/internal/config"
	"github.com/simonhull/mynah/internal/diff"
	"github.com/simonhull/mynah/internal/exec"
	"github.com/simonhull/mynah/internal/filesystem"
	"github.com/simonhull/mynah/internal/generate"
	"github.com/simonhull/mynah/internal/javalang"
	"github.com/simonhull/mynah/internal/output"
	"github.com/simonhull/mynah/internal/templates"
)

// errRunCancelled aborts a batch before anything is written.
var errRunCancelled = errors.New("run cancelled")

// GenerateCmd creates the generate command
func GenerateCmd() *cobra.Command {
	var (
		templateName string
		templatesDir string
		method       string
		className    string
		conflict     string
		insert       string
		caretOffset  int
		dryRun       bool
		showDiff     bool
		formatCmd    string
		autoImports  []string

		excludeModifiers []string
		excludeConstants bool
		excludeNames     string
		excludeTypes     string
		includeGetters   bool
		sortMembers      bool
	)

	cmd := &cobra.Command{
		Use:   "generate [files-or-globs...]",
		Short: "Generate toString() methods for Java classes",
		Long: `Generate toString() methods from class members.

Arguments may be .java files, directories, or globs (quote globs so your
shell does not expand them). Directories are walked for Java sources,
skipping build output. Each target class gets a method rendered from the
chosen template and inserted in place.

Examples:
  mynah generate src/main/java/com/acme/Person.java
  mynah generate src/ --template getters --dry-run
  mynah generate "src/**/model/*.java" --diff
  mynah generate Person.java --conflict ask
  mynah generate Person.java --class Address --insert after-equals-hashcode`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(".")
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			opts := generateOptions{
				Template:     cfg.Template,
				TemplatesDir: cfg.TemplatesDir,
				Method:       method,
				Class:        className,
				Conflict:     cfg.OnConflict,
				Insert:       cfg.Placement,
				CaretOffset:  caretOffset,
				DryRun:       dryRun,
				ShowDiff:     showDiff,
				FormatCmd:    cfg.FormatCmd,
				AutoImports:  cfg.AutoImports,
				Filter:       cfg.FilterOptions(),
			}

			// Flags win over config, config over defaults.
			flags := cmd.Flags()
			if flags.Changed("template") {
				opts.Template = templateName
			}
			if flags.Changed("templates-dir") {
				opts.TemplatesDir = templatesDir
			}
			if flags.Changed("conflict") {
				opts.Conflict = conflict
			}
			if flags.Changed("insert") {
				opts.Insert = insert
			}
			if flags.Changed("format-cmd") {
				opts.FormatCmd = formatCmd
			}
			if flags.Changed("auto-import") {
				opts.AutoImports = autoImports
			}
			if flags.Changed("exclude-modifiers") {
				opts.Filter.ExcludeModifiers = excludeModifiers
			}
			if flags.Changed("exclude-constants") {
				opts.Filter.ExcludeConstants = excludeConstants
			}
			if flags.Changed("exclude-names") {
				opts.Filter.ExcludeNames = excludeNames
			}
			if flags.Changed("exclude-types") {
				opts.Filter.ExcludeTypes = excludeTypes
			}
			if flags.Changed("include-getters") {
				opts.Filter.IncludeGetters = includeGetters
			}
			if flags.Changed("sort-members") {
				opts.Filter.SortMembers = sortMembers
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

			ctx := context.Background()
			run, err := runGenerate(ctx, paths, opts)
			if run != nil {
				reportGenerate(run, opts)
			}
			if err != nil {
				if errors.Is(err, errRunCancelled) {
					output.Info("Cancelled, no files were changed")
					return
				}
				output.Error(err.Error())
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "default", "Template name or .tmpl path")
	cmd.Flags().StringVar(&templatesDir, "templates-dir", "", "Directory with user templates")
	cmd.Flags().StringVar(&method, "method", "toString", "Method to generate")
	cmd.Flags().StringVar(&className, "class", "", "Class to target when a file declares several")
	cmd.Flags().StringVar(&conflict, "conflict", "replace", "What to do when the method exists: replace, duplicate, cancel, or ask")
	cmd.Flags().StringVar(&insert, "insert", "last", "Where to insert: last, after-equals-hashcode, or at-caret")
	cmd.Flags().IntVar(&caretOffset, "caret-offset", -1, "Byte offset locating the target class for at-caret insertion")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show a unified diff of each change")
	cmd.Flags().StringVar(&formatCmd, "format-cmd", "", "Reformat command to run on changed files ({} expands to the path)")
	cmd.Flags().StringSliceVar(&autoImports, "auto-import", nil, "Import to add alongside the method (repeatable)")
	cmd.Flags().StringSliceVar(&excludeModifiers, "exclude-modifiers", nil, "Member modifiers to exclude (e.g. static,transient)")
	cmd.Flags().BoolVar(&excludeConstants, "exclude-constants", false, "Exclude static final fields")
	cmd.Flags().StringVar(&excludeNames, "exclude-names", "", "Regex of member names to exclude")
	cmd.Flags().StringVar(&excludeTypes, "exclude-types", "", "Regex of member types to exclude")
	cmd.Flags().BoolVar(&includeGetters, "include-getters", false, "Render getters for fields the class does not declare")
	cmd.Flags().BoolVar(&sortMembers, "sort-members", false, "Sort members alphabetically before rendering")

	return cmd
}

// generateOptions is the effective configuration of one generate run,
// after flags have been merged over file and env settings.
type generateOptions struct {
	Template     string
	TemplatesDir string
	Method       string
	Class        string
	Conflict     string
	Insert       string
	CaretOffset  int
	DryRun       bool
	ShowDiff     bool
	FormatCmd    string
	AutoImports  []string
	Filter       generate.FilterOptions
}

// updateResult describes one rewritten file.
type updateResult struct {
	Path      string
	Class     string
	StartLine int
	EndLine   int
	Replaced  bool
	Imports   []string
	Diff      string
}

// skipResult describes a file the run left alone.
type skipResult struct {
	Path   string
	Reason string
}

// generateRun is what a batch did, or would do under --dry-run.
type generateRun struct {
	Updated []updateResult
	Skipped []skipResult
	Written bool
}

// runGenerate renders and inserts the method for every path, then
// commits all writes as one transaction. Dry runs stop before the
// commit. The returned run is partial when err is non-nil.
func runGenerate(ctx context.Context, paths []string, opts generateOptions) (*generateRun, error) {
	if opts.Method != "toString" {
		return nil, fmt.Errorf("unknown method %q (only toString is supported)", opts.Method)
	}

	parser, err := javalang.NewParser()
	if err != nil {
		return nil, err
	}

	registry := templates.NewRegistry(opts.TemplatesDir)
	tmpl, err := registry.Get(opts.Template)
	if err != nil {
		return nil, err
	}

	interactive := opts.Conflict == "ask"
	var policy generate.ConflictPolicy
	if !interactive {
		policy, err = generate.ParseConflictPolicy(opts.Conflict)
		if err != nil {
			return nil, err
		}
	}
	insertion, err := generate.ParseInsertionPolicy(opts.Insert)
	if err != nil {
		return nil, err
	}
	if insertion == generate.AtCaret && opts.CaretOffset < 0 {
		return nil, fmt.Errorf("at-caret insertion needs --caret-offset")
	}
	if opts.CaretOffset >= 0 && len(paths) > 1 {
		return nil, fmt.Errorf("--caret-offset applies to a single file, got %d", len(paths))
	}

	gen := generate.New(parser, templates.NewEngine())
	run := &generateRun{}
	tx := filesystem.NewTransaction()

	for _, path := range paths {
		f, err := parser.ParseFile(path)
		if err != nil {
			return run, err
		}
		if !f.Valid() {
			run.Skipped = append(run.Skipped, skipResult{path, "syntax errors"})
			continue
		}

		cl := f.Class(opts.Class)
		if cl == nil {
			reason := "no class declaration"
			if opts.Class != "" {
				reason = fmt.Sprintf("no class named %s", opts.Class)
			}
			run.Skipped = append(run.Skipped, skipResult{path, reason})
			continue
		}

		genOpts := generate.Options{
			Template:    tmpl,
			Conflict:    policy,
			Insertion:   insertion,
			Caret:       opts.CaretOffset,
			Filter:      opts.Filter,
			AutoImports: opts.AutoImports,
		}

		if interactive {
			genOpts.Conflict = generate.Replace
			if existing := cl.FindMethodByName("toString"); existing != nil {
				choice, err := askConflict(gen, f, cl, existing, genOpts)
				if err != nil {
					return run, err
				}
				switch choice {
				case resolutionDuplicate:
					genOpts.Conflict = generate.Duplicate
				case resolutionSkip:
					run.Skipped = append(run.Skipped, skipResult{path, "kept existing toString()"})
					continue
				case resolutionCancel:
					return run, errRunCancelled
				}
			}
		}

		result, err := gen.Generate(f, cl, genOpts)
		if err != nil {
			switch {
			case errors.Is(err, generate.ErrNothingToGenerate):
				run.Skipped = append(run.Skipped, skipResult{path, "nothing to generate"})
				continue
			case errors.Is(err, generate.ErrConflictCancelled):
				run.Skipped = append(run.Skipped, skipResult{path, "toString() already exists"})
				continue
			default:
				return run, fmt.Errorf("%s: %w", path, err)
			}
		}

		if bytes.Equal(f.Source, result.File.Source) {
			run.Skipped = append(run.Skipped, skipResult{path, "already up to date"})
			continue
		}

		update := updateResult{
			Path:      path,
			Class:     result.Class,
			StartLine: result.StartLine,
			EndLine:   result.EndLine,
			Replaced:  result.Replaced,
			Imports:   result.Imports,
		}
		if opts.ShowDiff {
			update.Diff = diff.Unified(path, f.Source, result.File.Source, nil)
		}

		run.Updated = append(run.Updated, update)
		tx.Add(path, result.File.Source)
	}

	if opts.DryRun || tx.Len() == 0 {
		return run, nil
	}

	if err := tx.Commit(); err != nil {
		return run, err
	}
	run.Written = true

	if opts.FormatCmd != "" {
		formatter, err := exec.NewFormatter(opts.FormatCmd, nil)
		if err != nil {
			return run, err
		}
		output.Verbose(fmt.Sprintf("Reformatting with %s", formatter))
		for _, u := range run.Updated {
			if err := formatter.Format(ctx, u.Path); err != nil {
				return run, fmt.Errorf("reformatting %s: %w", u.Path, err)
			}
		}
	}

	return run, nil
}

// askConflict runs the interactive menu for a class whose toString()
// already exists. The diff shown on request is the real pending edit.
func askConflict(gen *generate.Generator, f *javalang.File, cl *javalang.Class, existing *javalang.Method, genOpts generate.Options) (resolution, error) {
	var modTime time.Time
	if info, err := os.Stat(f.Path); err == nil {
		modTime = info.ModTime()
	}

	prompt := &conflictPrompt{
		path:    f.Path,
		class:   cl.Name,
		line:    f.LineOf(existing.Span.Start),
		modTime: modTime,
		diff: func() (string, error) {
			result, err := gen.Generate(f, cl, genOpts)
			if errors.Is(err, generate.ErrNothingToGenerate) {
				return "(nothing to generate for this class)", nil
			}
			if err != nil {
				return "", err
			}
			return diff.Unified(f.Path, f.Source, result.File.Source, nil), nil
		},
	}
	return prompt.resolve()
}

// reportGenerate prints diffs first, then per-file outcomes.
func reportGenerate(run *generateRun, opts generateOptions) {
	for _, u := range run.Updated {
		if u.Diff != "" {
			fmt.Println(u.Diff)
		}
	}

	for _, s := range run.Skipped {
		output.Warn(fmt.Sprintf("%s: skipped (%s)", s.Path, s.Reason))
	}

	for _, u := range run.Updated {
		where := fmt.Sprintf("lines %d-%d", u.StartLine, u.EndLine)
		if opts.DryRun {
			action := "insert"
			if u.Replaced {
				action = "replace"
			}
			output.Info(fmt.Sprintf("%s: would %s toString() in %s (%s)", u.Path, action, u.Class, where))
		} else {
			action := "inserted"
			if u.Replaced {
				action = "replaced"
			}
			output.Success(fmt.Sprintf("%s: %s toString() in %s (%s)", u.Path, action, u.Class, where))
		}
		for _, imp := range u.Imports {
			output.Verbose(fmt.Sprintf("%s: added import %s", u.Path, imp))
		}
	}

	switch {
	case opts.DryRun:
		output.Info(fmt.Sprintf("Dry run, %d of %d file(s) would change", len(run.Updated), len(run.Updated)+len(run.Skipped)))
	case run.Written:
		output.Success(fmt.Sprintf("Updated %d file(s)", len(run.Updated)))
	default:
		output.Info("Nothing to do")
	}
}
