package templates

import (
	"strings"

	"github.com/simonhull/mynah/internal/classify"
)

// Context is the read-only view a template renders against: the class
// facts plus the filtered member sequence, with Fields and Getters as
// convenience subsets.
type Context struct {
	Class   *classify.ClassFacts
	Members []*classify.MemberFacts
	Fields  []*classify.MemberFacts
	Getters []*classify.MemberFacts
}

// NewContext builds a context over the filtered members.
func NewContext(class *classify.ClassFacts, members []*classify.MemberFacts) *Context {
	ctx := &Context{Class: class, Members: members}
	for _, m := range members {
		if m.MethodName != "" {
			ctx.Getters = append(ctx.Getters, m)
		} else {
			ctx.Fields = append(ctx.Fields, m)
		}
	}
	return ctx
}

// MethodSpec fixes the signature of the method being generated. The
// template never contributes to it; toString() is always public with a
// String return and no parameters.
type MethodSpec struct {
	Name       string
	Returns    string
	Params     string // rendered parameter list, without parentheses
	Visibility string
}

// ToStringSpec is the canonical generated method.
func ToStringSpec() MethodSpec {
	return MethodSpec{Name: "toString", Returns: "String", Visibility: "public"}
}

// Signature renders the declaration line, braces excluded.
func (m MethodSpec) Signature() string {
	var parts []string
	if m.Visibility != "" {
		parts = append(parts, m.Visibility)
	}
	parts = append(parts, m.Returns, m.Name+"("+m.Params+")")
	return strings.Join(parts, " ")
}

// GeneratedUnit is the engine's output for one generation: an optional
// javadoc block, ordered annotation lines, the method body, and the
// imports the rendering needs.
type GeneratedUnit struct {
	Javadoc     string
	Annotations []string
	Body        string
	Method      MethodSpec
	Imports     []string
}

// Compose renders the unit as method source with every line prefixed
// by indent. Body lines keep their template-relative indentation, so
// the composed text nests one level inside the class.
func (u *GeneratedUnit) Compose(indent string) string {
	var b strings.Builder
	write := func(block string) {
		for _, line := range strings.Split(block, "\n") {
			if strings.TrimSpace(line) == "" {
				b.WriteString("\n")
				continue
			}
			b.WriteString(indent)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if u.Javadoc != "" {
		write(u.Javadoc)
	}
	for _, a := range u.Annotations {
		write(a)
	}
	b.WriteString(indent)
	b.WriteString(u.Method.Signature())
	b.WriteString(" {\n")
	if u.Body != "" {
		write(u.Body)
	}
	b.WriteString(indent)
	b.WriteString("}")
	return b.String()
}
