// Package filesystem resolves command-line arguments into the Java
// sources a run will touch: literal paths, directories walked
// recursively, and ** glob patterns.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIgnoreDirs are build and tool directories skipped during traversal
var DefaultIgnoreDirs = []string{
	"target", "build", "out", "bin",
	".git", ".svn", ".hg",
	".idea", ".vscode", "node_modules",
}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs    []string // Directories to skip (default: DefaultIgnoreDirs)
	IncludeHidden bool     // Include hidden files/dirs (default: false)
}

// Walk traverses a directory tree with configurable ignore rules.
// The visitor function is called for each file and directory.
// Return filepath.SkipDir from visitor to skip a directory.
func Walk(rootPath string, opts WalkOptions, visitor func(path string, info os.FileInfo) error) error {
	ignoreDirs := opts.IgnoreDirs
	if len(ignoreDirs) == 0 {
		ignoreDirs = DefaultIgnoreDirs
	}

	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !opts.IncludeHidden && strings.HasPrefix(info.Name(), ".") && path != rootPath {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			for _, ignore := range ignoreDirs {
				if info.Name() == ignore {
					return filepath.SkipDir
				}
			}
		}

		return visitor(path, info)
	})
}

// JavaFiles returns every .java file under root, sorted.
func JavaFiles(root string, opts WalkOptions) ([]string, error) {
	var files []string
	err := Walk(root, opts, func(path string, info os.FileInfo) error {
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".java") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Dirs returns root and every directory under it that survives the
// ignore rules. Watch mode registers each one with fsnotify, which
// does not recurse on its own.
func Dirs(root string, opts WalkOptions) ([]string, error) {
	var dirs []string
	err := Walk(root, opts, func(path string, info os.FileInfo) error {
		if info.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// Resolve expands arguments into concrete .java paths. An argument may
// be a file, a directory (walked recursively), or a glob pattern with
// ** support ("src/**/model/*.java"). Duplicates collapse; order
// follows the arguments, with walk and glob results sorted.
func Resolve(args []string, opts WalkOptions) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		path = filepath.Clean(path)
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			found, err := JavaFiles(arg, opts)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}

		case err == nil:
			if !strings.HasSuffix(arg, ".java") {
				return nil, fmt.Errorf("%s is not a Java source file", arg)
			}
			add(arg)

		case isPattern(arg):
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob %s: %w", arg, err)
			}
			sort.Strings(matches)
			matched := false
			for _, m := range matches {
				if strings.HasSuffix(m, ".java") {
					add(m)
					matched = true
				}
			}
			if !matched {
				return nil, fmt.Errorf("no Java files match %s", arg)
			}

		default:
			return nil, err
		}
	}

	return files, nil
}

// isPattern reports whether the argument contains glob metacharacters.
func isPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}
