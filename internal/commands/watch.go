package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/simonhull/mynah/internal/config"
	"github.com/simonhull/mynah/internal/filesystem"
	"github.com/simonhull/mynah/internal/output"
	"github.com/simonhull/mynah/internal/project"
)

// WatchCmd creates the watch command
func WatchCmd() *cobra.Command {
	var (
		templateName string
		templatesDir string
		method       string
		className    string
		conflict     string
		insert       string
		formatCmd    string
		autoImports  []string
		debounceMs   int

		excludeModifiers []string
		excludeConstants bool
		excludeNames     string
		excludeTypes     string
		includeGetters   bool
		sortMembers      bool
	)

	cmd := &cobra.Command{
		Use:   "watch [files-or-globs...]",
		Short: "Regenerate toString() methods as files change",
		Long: `Watch Java sources and regenerate toString() on every save.

Without arguments, the detected Maven or Gradle source roots are
watched. Regeneration replaces the existing method, so a file whose
toString() is already current is left untouched. Stop with Ctrl-C.

Examples:
  mynah watch
  mynah watch src/main/java --template getters
  mynah watch "src/**/model/*.java"`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(".")
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			// A watch with a broken config would otherwise error on every
			// save instead of at startup.
			if err := cfg.Validate(); err != nil {
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
				CaretOffset:  -1,
				FormatCmd:    cfg.FormatCmd,
				AutoImports:  cfg.AutoImports,
				Filter:       cfg.FilterOptions(),
			}

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

			// Every save regenerates, so only idempotent policies are safe.
			// Duplicate would append a method per event and ask would block
			// the loop on a prompt.
			if opts.Conflict != "replace" && opts.Conflict != "cancel" {
				output.Error(fmt.Sprintf("watch regenerates on every change; --conflict must be replace or cancel, not %q", opts.Conflict))
				os.Exit(1)
			}
			if opts.Insert == "at-caret" {
				output.Error("watch cannot use at-caret insertion")
				os.Exit(1)
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

			targets, err := newWatchTargets(args)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Bring everything up to date once before watching. A glob
			// may legitimately match nothing yet, so resolution failures
			// do not stop the watch.
			if initial, err := filesystem.Resolve(args, filesystem.WalkOptions{}); err == nil && len(initial) > 0 {
				run, err := runGenerate(ctx, initial, opts)
				if run != nil {
					reportWatch(run)
				}
				if err != nil {
					output.Error(err.Error())
					os.Exit(1)
				}
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			defer watcher.Close()

			for _, dir := range targets.watchDirs {
				if err := watcher.Add(dir); err != nil {
					output.Warn(fmt.Sprintf("cannot watch %s: %v", dir, err))
				}
			}
			output.Info(fmt.Sprintf("Watching %d directories, Ctrl-C to stop", len(targets.watchDirs)))

			var genMu sync.Mutex
			deb := newDebouncer(time.Duration(debounceMs)*time.Millisecond, func(changed []string) {
				genMu.Lock()
				defer genMu.Unlock()

				run, err := runGenerate(ctx, changed, opts)
				if run != nil {
					reportWatch(run)
				}
				if err != nil && !errors.Is(err, errRunCancelled) {
					output.Error(err.Error())
				}
			})
			defer deb.stop()

			for {
				select {
				case <-ctx.Done():
					output.Info("Stopped")
					return

				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
						continue
					}
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						// New directories need their own watch.
						if event.Op&fsnotify.Create != 0 && !ignoredDir(info.Name()) {
							if err := watcher.Add(event.Name); err != nil {
								output.Warn(fmt.Sprintf("cannot watch %s: %v", event.Name, err))
							}
						}
						continue
					}
					if targets.matches(event.Name) {
						deb.add(event.Name)
					}

				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					output.Warn(err.Error())
				}
			}
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "default", "Template name or .tmpl path")
	cmd.Flags().StringVar(&templatesDir, "templates-dir", "", "Directory with user templates")
	cmd.Flags().StringVar(&method, "method", "toString", "Method to generate")
	cmd.Flags().StringVar(&className, "class", "", "Class to target when a file declares several")
	cmd.Flags().StringVar(&conflict, "conflict", "replace", "What to do when the method exists: replace or cancel")
	cmd.Flags().StringVar(&insert, "insert", "last", "Where to insert: last or after-equals-hashcode")
	cmd.Flags().StringVar(&formatCmd, "format-cmd", "", "Reformat command to run on changed files ({} expands to the path)")
	cmd.Flags().StringSliceVar(&autoImports, "auto-import", nil, "Import to add alongside the method (repeatable)")
	cmd.Flags().IntVar(&debounceMs, "debounce", 300, "Milliseconds to batch filesystem events")
	cmd.Flags().StringSliceVar(&excludeModifiers, "exclude-modifiers", nil, "Member modifiers to exclude (e.g. static,transient)")
	cmd.Flags().BoolVar(&excludeConstants, "exclude-constants", false, "Exclude static final fields")
	cmd.Flags().StringVar(&excludeNames, "exclude-names", "", "Regex of member names to exclude")
	cmd.Flags().StringVar(&excludeTypes, "exclude-types", "", "Regex of member types to exclude")
	cmd.Flags().BoolVar(&includeGetters, "include-getters", false, "Render getters for fields the class does not declare")
	cmd.Flags().BoolVar(&sortMembers, "sort-members", false, "Sort members alphabetically before rendering")

	return cmd
}

// watchTargets decides which filesystem events belong to this run.
// Directory arguments admit any .java file beneath them, file
// arguments only themselves, glob arguments whatever matches.
type watchTargets struct {
	watchDirs []string
	dirRoots  []string
	files     map[string]bool
	patterns  []string
}

func newWatchTargets(args []string) (*watchTargets, error) {
	t := &watchTargets{files: make(map[string]bool)}
	seen := make(map[string]bool)

	addDirTree := func(root string) error {
		dirs, err := filesystem.Dirs(root, filesystem.WalkOptions{})
		if err != nil {
			return err
		}
		for _, d := range dirs {
			if !seen[d] {
				seen[d] = true
				t.watchDirs = append(t.watchDirs, d)
			}
		}
		return nil
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			t.dirRoots = append(t.dirRoots, filepath.Clean(arg))
			if err := addDirTree(arg); err != nil {
				return nil, err
			}

		case err == nil:
			t.files[filepath.Clean(arg)] = true
			dir := filepath.Dir(arg)
			if !seen[dir] {
				seen[dir] = true
				t.watchDirs = append(t.watchDirs, dir)
			}

		case isPatternArg(arg):
			t.patterns = append(t.patterns, arg)
			if err := addDirTree(globBase(arg)); err != nil {
				return nil, err
			}

		default:
			return nil, err
		}
	}

	return t, nil
}

// matches reports whether a changed path is one this run cares about.
func (t *watchTargets) matches(path string) bool {
	if !strings.HasSuffix(path, ".java") {
		return false
	}
	if t.files[filepath.Clean(path)] {
		return true
	}
	for _, root := range t.dirRoots {
		if underDir(root, path) {
			return true
		}
	}
	for _, pattern := range t.patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// underDir reports whether path lies inside dir.
func underDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// globBase returns the static directory prefix of a glob pattern, the
// deepest directory that can be watched for its matches.
func globBase(pattern string) string {
	i := strings.IndexAny(pattern, "*?[{")
	if i < 0 {
		return filepath.Dir(pattern)
	}
	return filepath.Dir(pattern[:i])
}

// isPatternArg mirrors the glob detection used for argument resolution.
func isPatternArg(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

// ignoredDir reports whether a newly created directory should stay
// unwatched, matching the traversal ignore rules.
func ignoredDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ignore := range filesystem.DefaultIgnoreDirs {
		if name == ignore {
			return true
		}
	}
	return false
}

// reportWatch prints one regeneration pass, quieting the files that
// were already current so save loops stay readable.
func reportWatch(run *generateRun) {
	for _, s := range run.Skipped {
		if s.Reason == "already up to date" {
			output.Verbose(fmt.Sprintf("%s: already up to date", s.Path))
			continue
		}
		output.Warn(fmt.Sprintf("%s: skipped (%s)", s.Path, s.Reason))
	}
	for _, u := range run.Updated {
		action := "inserted"
		if u.Replaced {
			action = "regenerated"
		}
		output.Success(fmt.Sprintf("%s: %s toString() in %s (lines %d-%d)", u.Path, action, u.Class, u.StartLine, u.EndLine))
	}
}

// debouncer batches watcher events so a burst of saves becomes one
// regeneration pass.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]struct{}
	timer   *time.Timer
	fire    func([]string)
}

func newDebouncer(delay time.Duration, fire func([]string)) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]struct{}),
		fire:    fire,
	}
}

// add records a changed path and restarts the delay.
func (d *debouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

// flush hands the batch to the callback.
func (d *debouncer) flush() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)
	d.fire(paths)
}

// stop cancels any pending flush.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
