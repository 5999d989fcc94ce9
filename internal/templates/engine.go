// Package templates turns a classified class into generated method
// source. A template resource is split into javadoc, annotation, and
// body sections, each evaluated as a Go text/template against the
// class and member facts; the engine assembles the results into a
// GeneratedUnit ready for insertion.
package templates

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"github.com/cespare/xxhash/v2"
)

// Error is a template that failed to split, parse, or execute. The
// wrapped error carries the engine's positional diagnostic.
type Error struct {
	Template string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("template %q: %v", e.Template, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Engine evaluates template resources. Parsed sections are cached by
// content hash, so a template file edited between runs never serves a
// stale parse.
type Engine struct {
	funcMap template.FuncMap
	mu      sync.RWMutex
	cache   map[uint64]*template.Template
}

// NewEngine returns an engine with the default helper functions.
func NewEngine() *Engine {
	return &Engine{
		funcMap: defaultFuncMap(),
		cache:   make(map[uint64]*template.Template),
	}
}

// Evaluate renders the resource against ctx and assembles the unit for
// spec. Sections render separately with the same context, so macros
// work inside documentation and annotations as well as the body. No
// partial unit is returned on failure.
func (e *Engine) Evaluate(res *Resource, spec MethodSpec, ctx *Context) (*GeneratedUnit, error) {
	secs, err := splitSections(res.Source)
	if err != nil {
		return nil, &Error{Template: res.Name, Err: err}
	}

	unit := &GeneratedUnit{Method: spec}
	if secs.javadoc != "" {
		out, err := e.render(res.Name+"#javadoc", secs.javadoc, ctx)
		if err != nil {
			return nil, err
		}
		unit.Javadoc = out
	}
	for i, a := range secs.annotations {
		out, err := e.render(fmt.Sprintf("%s#annotation%d", res.Name, i+1), a, ctx)
		if err != nil {
			return nil, err
		}
		unit.Annotations = append(unit.Annotations, out)
	}
	body, err := e.render(res.Name+"#body", secs.body, ctx)
	if err != nil {
		return nil, err
	}
	unit.Body = body
	unit.Imports = requiredImports(res.Imports, ctx)
	return unit, nil
}

// render parses one section, reusing a previous parse of identical
// content, and executes it.
func (e *Engine) render(name, src string, data any) (string, error) {
	key := xxhash.Sum64String(name + "\x00" + src)

	e.mu.RLock()
	tmpl, ok := e.cache[key]
	e.mu.RUnlock()

	if !ok {
		var err error
		tmpl, err = template.New(name).Funcs(e.funcMap).Parse(src)
		if err != nil {
			return "", &Error{Template: name, Err: err}
		}
		e.mu.Lock()
		e.cache[key] = tmpl
		e.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &Error{Template: name, Err: err}
	}
	return buf.String(), nil
}

// requiredImports resolves the resource's import triggers against the
// members being rendered.
func requiredImports(imports []Import, ctx *Context) []string {
	var out []string
	for _, im := range imports {
		switch im.When {
		case "", "always":
			out = append(out, im.Path)
		case "arrays":
			for _, m := range ctx.Members {
				if m.Array {
					out = append(out, im.Path)
					break
				}
			}
		}
	}
	return out
}
