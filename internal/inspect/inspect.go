// Package inspect flags classes that have state worth printing but no
// toString of their own. The check mirrors generation: a class only
// reports when the member filter would leave something to render, so a
// reported class is always one the generator can fix.
package inspect

import (
	"fmt"
	"regexp"

	"github.com/simonhull/mynah/internal/classify"
	"github.com/simonhull/mynah/internal/generate"
	"github.com/simonhull/mynah/internal/javalang"
)

// Options controls which classes the check skips.
type Options struct {
	ExcludeExceptions bool
	ExcludeDeprecated bool
	ExcludeEnums      bool
	ExcludeAbstract   bool
	ExcludeClassNames string // regex over simple class names
	Filter            generate.FilterOptions
}

// DefaultOptions skips exceptions and deprecated classes, the
// long-standing defaults for this check.
func DefaultOptions() Options {
	return Options{ExcludeExceptions: true, ExcludeDeprecated: true}
}

// Problem is one finding: a class missing its toString.
type Problem struct {
	Path    string
	Class   string
	Line    int
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s:%d: %s", p.Path, p.Line, p.Message)
}

// Check inspects every class in the file, nested declarations included.
func Check(f *javalang.File, opts Options) ([]Problem, error) {
	var nameRe *regexp.Regexp
	if opts.ExcludeClassNames != "" {
		re, err := regexp.Compile(opts.ExcludeClassNames)
		if err != nil {
			return nil, fmt.Errorf("exclude-classes pattern: %w", err)
		}
		nameRe = re
	}

	cls := classify.New(javalang.NewResolver(f))
	var problems []Problem
	for _, cl := range f.AllClasses() {
		p, err := checkClass(cls, f, cl, nameRe, opts)
		if err != nil {
			return nil, err
		}
		if p != nil {
			problems = append(problems, *p)
		}
	}
	return problems, nil
}

func checkClass(cls *classify.Classifier, f *javalang.File, cl *javalang.Class, nameRe *regexp.Regexp, opts Options) (*Problem, error) {
	switch cl.Kind {
	case javalang.KindInterface, javalang.KindAnnotationType:
		return nil, nil
	case javalang.KindRecord:
		// records synthesize toString
		return nil, nil
	}

	facts := cls.Class(cl)
	switch {
	case opts.ExcludeExceptions && facts.Exception:
		return nil, nil
	case opts.ExcludeDeprecated && facts.Deprecated:
		return nil, nil
	case opts.ExcludeEnums && facts.Enum:
		return nil, nil
	case opts.ExcludeAbstract && facts.Abstract:
		return nil, nil
	case nameRe != nil && nameRe.MatchString(cl.Name):
		return nil, nil
	}

	// a class with no fields at all has nothing to dump, whatever the
	// filter would say about getters
	if len(cl.Fields) == 0 {
		return nil, nil
	}

	members, err := generate.FilterMembers(cls, facts, cl, opts.Filter)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	if cl.FindMethodByName("toString") != nil {
		return nil, nil
	}

	return &Problem{
		Path:    f.Path,
		Class:   cl.Name,
		Line:    f.LineOf(cl.Span.Start),
		Message: fmt.Sprintf("class %s does not override toString()", cl.Name),
	}, nil
}
