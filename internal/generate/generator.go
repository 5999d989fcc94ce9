// Package generate orchestrates toString generation for one class at a
// time: classify the members, evaluate the template, resolve conflicts,
// and stage every edit through a single EditScope so the file either
// commits whole or stays untouched.
package generate

import (
	"bytes"
	"strings"

	"github.com/simonhull/mynah/internal/classify"
	"github.com/simonhull/mynah/internal/javalang"
	"github.com/simonhull/mynah/internal/templates"
)

// Options bundles one generation request.
type Options struct {
	Template    *templates.Resource
	Conflict    ConflictPolicy
	Insertion   InsertionPolicy
	Caret       int // byte offset for AtCaret, -1 when no cursor is known
	Filter      FilterOptions
	AutoImports []string
}

// Result describes one completed generation.
type Result struct {
	File      *javalang.File // reparsed file after the edit
	Class     string
	Method    string
	StartLine int // 1-based line range of the inserted method
	EndLine   int
	Replaced  bool
	Imports   []string // imports actually added
}

// Generator runs the generation pipeline. It holds no per-request
// state; facts are rebuilt from the tree on every call because the file
// may have changed between invocations.
type Generator struct {
	parser *javalang.Parser
	engine *templates.Engine
}

func New(parser *javalang.Parser, engine *templates.Engine) *Generator {
	return &Generator{parser: parser, engine: engine}
}

// Generate produces the method for one class and commits the edit.
// Cancel short-circuits before anything is staged, so a cancelled run
// leaves the file byte-identical.
func (g *Generator) Generate(f *javalang.File, cl *javalang.Class, opts Options) (*Result, error) {
	cls := classify.New(javalang.NewResolver(f))
	class := cls.Class(cl)

	members, err := FilterMembers(cls, class, cl, opts.Filter)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrNothingToGenerate
	}

	spec := templates.ToStringSpec()
	unit, err := g.engine.Evaluate(opts.Template, spec, templates.NewContext(class, members))
	if err != nil {
		return nil, err
	}

	existing := cl.FindMethodByName(spec.Name)
	if existing != nil && opts.Conflict == Cancel {
		return nil, ErrConflictCancelled
	}
	var replaced *javalang.Method
	if existing != nil && opts.Conflict == Replace {
		replaced = existing
	}

	mergeJavadoc(unit, f, replaced)
	unit.Annotations = mergeAnnotations(replaced, unit.Annotations)

	indent := f.MemberIndent(cl)
	composed := unit.Compose(indent)

	scope := f.NewEditScope(g.parser)
	if replaced != nil {
		scope.RemoveMethod(replaced)
	}
	stage(scope, f, cl, place(opts.Insertion, cl, opts.Caret, replaced), composed, indent)

	var added []string
	for _, path := range unit.Imports {
		if scope.AddImport(path) {
			added = append(added, path)
		}
	}
	for _, path := range opts.AutoImports {
		if scope.AddImport(path) {
			added = append(added, path)
		}
	}

	out, err := scope.Commit()
	if err != nil {
		return nil, &InsertionError{Class: cl.Name, Err: err}
	}

	res := &Result{
		File:     out,
		Class:    cl.Name,
		Method:   spec.Name,
		Replaced: replaced != nil,
		Imports:  added,
	}
	if off := bytes.Index(out.Source, []byte(composed)); off >= 0 {
		res.StartLine = out.LineOf(off)
		res.EndLine = out.LineOf(off + len(composed) - 1)
	}
	return res, nil
}

// mergeJavadoc keeps a replaced method's documentation when the
// template supplies none. Template javadoc always wins over whatever
// the old method carried.
func mergeJavadoc(unit *templates.GeneratedUnit, f *javalang.File, replaced *javalang.Method) {
	if unit.Javadoc != "" || replaced == nil || replaced.Javadoc == nil {
		return
	}
	unit.Javadoc = reflowJavadoc(f.Text(replaced.Javadoc.Span))
}

// reflowJavadoc strips source indentation from a captured comment so
// Compose can re-indent it at the new position.
func reflowJavadoc(doc string) string {
	lines := strings.Split(doc, "\n")
	for i := 1; i < len(lines); i++ {
		trimmed := strings.TrimLeft(lines[i], " \t")
		if strings.HasPrefix(trimmed, "*") {
			trimmed = " " + trimmed
		}
		lines[i] = trimmed
	}
	return strings.Join(lines, "\n")
}

// mergeAnnotations folds the template's annotations over a replaced
// method's: same-named annotations are replaced in place, new ones
// append in template order. A fresh insert just takes the template
// list.
func mergeAnnotations(replaced *javalang.Method, tmpl []string) []string {
	if replaced == nil || len(replaced.Annotations) == 0 {
		return tmpl
	}
	out := make([]string, 0, len(replaced.Annotations)+len(tmpl))
	for _, a := range replaced.Annotations {
		out = append(out, a.Text)
	}
	for _, t := range tmpl {
		name := annotationName(t)
		found := false
		for i, existing := range out {
			if annotationName(existing) == name {
				out[i] = t
				found = true
				break
			}
		}
		if !found {
			out = append(out, t)
		}
	}
	return out
}

// annotationName extracts the simple name: "@java.lang.Override" and
// "@Override" both yield "Override".
func annotationName(text string) string {
	text = strings.TrimPrefix(strings.TrimSpace(text), "@")
	if i := strings.IndexAny(text, "( \t"); i >= 0 {
		text = text[:i]
	}
	if i := strings.LastIndexByte(text, '.'); i >= 0 {
		text = text[i+1:]
	}
	return text
}
