package javalang

import (
	"strings"
)

var primitiveKinds = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
}

// IsPrimitiveName reports whether name is one of the eight scalar kinds.
func IsPrimitiveName(name string) bool { return primitiveKinds[name] }

// TypeRef is a declared type as written in source. Text keeps the exact
// written form; Base strips arrays and generic arguments.
type TypeRef struct {
	Text      string
	Base      string
	Args      []string // generic argument texts, top level only
	ArrayDims int
	Primitive bool // Base is a scalar kind (arrays of scalars included)
	Void      bool
}

// ParseTypeRef builds a TypeRef from the written form of a type.
// Varargs ("String...") normalize to one array dimension.
func ParseTypeRef(text string) TypeRef {
	text = strings.TrimSpace(text)
	t := TypeRef{Text: text}
	if text == "" {
		return t
	}
	if text == "void" {
		t.Void = true
		return t
	}

	base := text
	if strings.HasSuffix(base, "...") {
		base = strings.TrimSpace(strings.TrimSuffix(base, "..."))
		t.ArrayDims++
	}
	for strings.HasSuffix(base, "[]") {
		base = strings.TrimSpace(strings.TrimSuffix(base, "[]"))
		t.ArrayDims++
	}
	if i := strings.IndexByte(base, '<'); i >= 0 && strings.HasSuffix(base, ">") {
		t.Args = splitTypeArgs(base[i+1 : len(base)-1])
		base = base[:i]
	}
	t.Base = strings.TrimSpace(base)
	t.Primitive = primitiveKinds[t.Base]
	return t
}

// splitTypeArgs splits a generic argument list on top-level commas:
// "String, List<Integer>" yields ["String", "List<Integer>"].
func splitTypeArgs(s string) []string {
	var args []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		args = append(args, rest)
	}
	return args
}

// IsArray reports whether the type has at least one array dimension.
func (t TypeRef) IsArray() bool { return t.ArrayDims > 0 }

// IsVoid reports the void pseudo-type.
func (t TypeRef) IsVoid() bool { return t.Void }

// SimpleName returns the base name without any package qualifier.
func (t TypeRef) SimpleName() string {
	if i := strings.LastIndexByte(t.Base, '.'); i >= 0 {
		return t.Base[i+1:]
	}
	return t.Base
}

// SingleGeneric reports whether the written form contains exactly one
// angle-bracket pair, the shape simple element-type extraction supports.
func (t TypeRef) SingleGeneric() bool {
	return strings.Count(t.Text, "<") == 1 && strings.Count(t.Text, ">") == 1
}

// FirstArg returns the first generic argument as a TypeRef.
func (t TypeRef) FirstArg() (TypeRef, bool) {
	if len(t.Args) == 0 {
		return TypeRef{}, false
	}
	return ParseTypeRef(t.Args[0]), true
}

// Element returns the type with one array dimension removed. Calling it
// on a non-array returns the type unchanged.
func (t TypeRef) Element() TypeRef {
	if t.ArrayDims == 0 {
		return t
	}
	text := t.Text
	if strings.HasSuffix(text, "...") {
		text = strings.TrimSpace(strings.TrimSuffix(text, "..."))
	} else if strings.HasSuffix(text, "[]") {
		text = strings.TrimSpace(strings.TrimSuffix(text, "[]"))
	}
	return ParseTypeRef(text)
}
