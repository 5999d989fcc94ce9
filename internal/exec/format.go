package exec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Formatter runs the user's reformat command over files mynah has
// written. The command string is split on whitespace with single and
// double quotes respected; every {} inside a token takes the file path,
// or the path is appended when no placeholder appears.
//
// Example:
//
//	f, err := NewFormatter(`google-java-format --replace {}`, nil)
//	err = f.Format(ctx, "src/main/java/Person.java")
type Formatter struct {
	argv     []string
	executor *Executor
	stdout   *PrefixWriter
	stderr   *PrefixWriter
}

// NewFormatter parses command and prepares a runner. An empty command
// yields a nil Formatter; a nil Formatter formats nothing, so callers
// can invoke Format unconditionally.
func NewFormatter(command string, opts *Options) (*Formatter, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, nil
	}
	argv, err := splitCommand(command)
	if err != nil {
		return nil, fmt.Errorf("format command: %w", err)
	}

	if opts == nil {
		opts = &Options{}
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	prefix := "[" + filepath.Base(argv[0]) + "] "
	stdout := NewPrefixWriter(opts.Stdout, prefix)
	stderr := NewPrefixWriter(opts.Stderr, prefix)

	return &Formatter{
		argv:   argv,
		stdout: stdout,
		stderr: stderr,
		executor: NewExecutor(&Options{
			Stdout: stdout,
			Stderr: stderr,
			Env:    opts.Env,
			Dir:    opts.Dir,
		}),
	}, nil
}

// Format reformats one file.
func (f *Formatter) Format(ctx context.Context, path string) error {
	if f == nil {
		return nil
	}

	args := make([]string, 0, len(f.argv))
	placed := false
	for _, tok := range f.argv[1:] {
		if strings.Contains(tok, "{}") {
			placed = true
			tok = strings.ReplaceAll(tok, "{}", path)
		}
		args = append(args, tok)
	}
	if !placed {
		args = append(args, path)
	}

	err := f.executor.Run(ctx, f.argv[0], args...)
	f.stdout.Flush()
	f.stderr.Flush()
	return err
}

// String returns the parsed command, for verbose logging.
func (f *Formatter) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(f.argv, " ")
}

// splitCommand tokenizes a command line. Quotes group words; they do
// not nest and both kinds behave alike.
func splitCommand(command string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		quote   rune
		open    bool
	)
	for _, r := range command {
		switch {
		case open:
			if r == quote {
				open = false
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			open = true
			quote = r
		case r == ' ' || r == '\t':
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if open {
		return nil, fmt.Errorf("unclosed %c quote in %q", quote, command)
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
