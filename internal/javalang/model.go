package javalang

import (
	"strings"
)

// Span is a half-open byte range [Start, End) into a file's source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether off falls inside the span.
func (s Span) Contains(off int) bool { return off >= s.Start && off < s.End }

// IsZero reports whether the span is unset.
func (s Span) IsZero() bool { return s.Start == 0 && s.End == 0 }

// ClassKind discriminates the Java type declarations the model carries.
type ClassKind int

const (
	KindClass ClassKind = iota
	KindInterface
	KindEnum
	KindRecord
	KindAnnotationType
)

func (k ClassKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindAnnotationType:
		return "@interface"
	default:
		return "class"
	}
}

// MemberKind discriminates the ordered entries of a class body.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberConstructor
	MemberType
	MemberInitializer
)

// Member is one ordered entry of a class body. Field, Method, and Nested
// point into the typed slices on Class; initializer blocks carry only a
// span. A multi-declarator field declaration is a single member whose
// Field references the first declarator.
type Member struct {
	Kind   MemberKind
	Span   Span
	Field  *Field
	Method *Method
	Nested *Class
}

// StartWithDoc returns the start offset of the member including its
// preceding javadoc comment, if it has one.
func (m Member) StartWithDoc() int {
	switch {
	case m.Kind == MemberField && m.Field != nil && m.Field.Javadoc != nil:
		return m.Field.Javadoc.Span.Start
	case (m.Kind == MemberMethod || m.Kind == MemberConstructor) && m.Method != nil && m.Method.Javadoc != nil:
		return m.Method.Javadoc.Span.Start
	case m.Kind == MemberType && m.Nested != nil && m.Nested.Javadoc != nil:
		return m.Nested.Javadoc.Span.Start
	}
	return m.Span.Start
}

// Modifiers holds the declaration modifiers of a class or member.
type Modifiers struct {
	Public       bool
	Protected    bool
	Private      bool
	Static       bool
	Final        bool
	Abstract     bool
	Transient    bool
	Volatile     bool
	Synchronized bool
	Native       bool
	Strictfp     bool
	Default      bool
}

// Visibility returns "public", "protected", "private", or "" for
// package-local declarations.
func (m Modifiers) Visibility() string {
	switch {
	case m.Public:
		return "public"
	case m.Protected:
		return "protected"
	case m.Private:
		return "private"
	}
	return ""
}

// Annotation is a single annotation as written in source.
type Annotation struct {
	Name string // simple name, scope prefix stripped ("Override")
	Text string // full text including @ and arguments
	Span Span
}

// Comment is a javadoc or block comment with its span.
type Comment struct {
	Text string
	Span Span
}

// Import is one import declaration.
type Import struct {
	Path     string // "java.util.List", or "java.util" when Wildcard
	Static   bool
	Wildcard bool
	Span     Span
}

// Param is a formal method parameter.
type Param struct {
	Name    string
	Type    TypeRef
	Varargs bool
}

// Field is one declarator of a field declaration.
type Field struct {
	Name        string
	Type        TypeRef
	Modifiers   Modifiers
	Annotations []Annotation
	Javadoc     *Comment
	Init        string // initializer expression text, "" if none
	Span        Span   // the whole field declaration (shared by declarators)
	NameSpan    Span
	Owner       *Class
}

// IsDeprecated reports a @Deprecated annotation or a @deprecated javadoc
// tag on the field.
func (f *Field) IsDeprecated() bool {
	for _, a := range f.Annotations {
		if a.Name == "Deprecated" {
			return true
		}
	}
	return f.Javadoc != nil && strings.Contains(f.Javadoc.Text, "@deprecated")
}

// Method is a method or constructor declaration.
type Method struct {
	Name        string
	Returns     TypeRef // zero value for constructors
	Params      []Param
	Modifiers   Modifiers
	Annotations []Annotation
	Javadoc     *Comment
	Throws      []string
	Span        Span
	Body        Span // zero when the method has no body
	Constructor bool
	Owner       *Class
}

// HasAnnotation reports whether the method carries an annotation with the
// given simple name.
func (m *Method) HasAnnotation(name string) bool {
	for _, a := range m.Annotations {
		if a.Name == name {
			return true
		}
	}
	return false
}

// IsDeprecated reports a @Deprecated annotation or a @deprecated javadoc
// tag on the method.
func (m *Method) IsDeprecated() bool {
	if m.HasAnnotation("Deprecated") {
		return true
	}
	return m.Javadoc != nil && strings.Contains(m.Javadoc.Text, "@deprecated")
}

// Class is a type declaration and its body.
type Class struct {
	Name           string
	Kind           ClassKind
	Modifiers      Modifiers
	Annotations    []Annotation
	Javadoc        *Comment
	Super          string   // extends clause text, "" if none
	Interfaces     []string // implements clause texts in order
	Span           Span
	LBrace         int  // offset of the body's opening brace
	RBrace         int  // offset of the body's closing brace
	MemberStart    int  // earliest offset where a member may be inserted
	NeedsSeparator bool // enum body missing the ";" that opens its member section
	Members        []Member
	Fields         []*Field
	Methods        []*Method
	Constructors   []*Method
	Nested         []*Class
	Parent         *Class // enclosing class, nil at top level
	File           *File
}

// Body returns the span from the opening brace to just past the closing
// brace.
func (c *Class) Body() Span { return Span{Start: c.LBrace, End: c.RBrace + 1} }

// QualifiedName returns package.Outer.Inner for the class.
func (c *Class) QualifiedName() string {
	var parts []string
	for cur := c; cur != nil; cur = cur.Parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	name := strings.Join(parts, ".")
	if c.File != nil && c.File.Package != "" {
		return c.File.Package + "." + name
	}
	return name
}

// SuperName returns the simple name of the extends clause, generics
// stripped, "" when the class extends nothing.
func (c *Class) SuperName() string {
	return simpleTypeName(c.Super)
}

// HasSuper reports whether the class extends something other than the
// universal root. Extending Object does not count as having a superclass.
func (c *Class) HasSuper() bool {
	n := c.SuperName()
	return n != "" && n != "Object"
}

// InterfaceNames returns the simple names of the implements clause.
func (c *Class) InterfaceNames() []string {
	names := make([]string, 0, len(c.Interfaces))
	for _, it := range c.Interfaces {
		names = append(names, simpleTypeName(it))
	}
	return names
}

// IsDeprecated reports a @Deprecated annotation or a @deprecated javadoc
// tag on the class.
func (c *Class) IsDeprecated() bool {
	for _, a := range c.Annotations {
		if a.Name == "Deprecated" {
			return true
		}
	}
	return c.Javadoc != nil && strings.Contains(c.Javadoc.Text, "@deprecated")
}

// FindMethodByName returns the bottom-most method with the given name.
// The scan runs in reverse so that duplicate names resolve to the most
// recently declared method.
func (c *Class) FindMethodByName(name string) *Method {
	for i := len(c.Methods) - 1; i >= 0; i-- {
		if c.Methods[i].Name == name {
			return c.Methods[i]
		}
	}
	return nil
}

// MethodsNamed returns every method with the given name in source order.
func (c *Class) MethodsNamed(name string) []*Method {
	var out []*Method
	for _, m := range c.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// FindFieldByName returns the bottom-most field with the given name,
// scanning in reverse like FindMethodByName.
func (c *Class) FindFieldByName(name string) *Field {
	for i := len(c.Fields) - 1; i >= 0; i-- {
		if c.Fields[i].Name == name {
			return c.Fields[i]
		}
	}
	return nil
}

// MemberAt returns the direct member whose span contains the offset, or
// nil when the offset falls between members.
func (c *Class) MemberAt(off int) *Member {
	for i := range c.Members {
		if c.Members[i].Span.Contains(off) {
			return &c.Members[i]
		}
	}
	return nil
}

// MemberBefore returns the last direct member ending at or before the
// offset, or nil when no member precedes it.
func (c *Class) MemberBefore(off int) *Member {
	var found *Member
	for i := range c.Members {
		if c.Members[i].Span.End <= off {
			found = &c.Members[i]
		}
	}
	return found
}

// LastMember returns the final member of the class body, nil for an empty
// body.
func (c *Class) LastMember() *Member {
	if len(c.Members) == 0 {
		return nil
	}
	return &c.Members[len(c.Members)-1]
}

// File is a parsed Java source file.
type File struct {
	Path    string
	Source  []byte
	Package string
	Imports []Import
	Classes []*Class // top-level type declarations in order

	packageSpan Span
	valid       bool
}

// Valid reports whether the file parsed without syntax errors.
func (f *File) Valid() bool { return f.valid }

// Class returns the class with the given simple name, searching nested
// classes depth-first. Empty name selects the primary class.
func (f *File) Class(name string) *Class {
	if name == "" {
		return f.PrimaryClass()
	}
	var walk func(cs []*Class) *Class
	walk = func(cs []*Class) *Class {
		for _, c := range cs {
			if c.Name == name {
				return c
			}
			if found := walk(c.Nested); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(f.Classes)
}

// PrimaryClass returns the first public top-level class, or the first
// top-level class when none is public.
func (f *File) PrimaryClass() *Class {
	for _, c := range f.Classes {
		if c.Modifiers.Public {
			return c
		}
	}
	if len(f.Classes) > 0 {
		return f.Classes[0]
	}
	return nil
}

// AllClasses returns every class in the file, outer before nested.
func (f *File) AllClasses() []*Class {
	var out []*Class
	var walk func(cs []*Class)
	walk = func(cs []*Class) {
		for _, c := range cs {
			out = append(out, c)
			walk(c.Nested)
		}
	}
	walk(f.Classes)
	return out
}

// HasImport reports whether the import path is present, either exactly or
// covered by a wildcard import of its package.
func (f *File) HasImport(path string) bool {
	wildcard := strings.HasSuffix(path, ".*")
	pkg := path
	if wildcard {
		pkg = strings.TrimSuffix(path, ".*")
	}
	for _, imp := range f.Imports {
		if imp.Static {
			continue
		}
		if wildcard {
			if imp.Wildcard && imp.Path == pkg {
				return true
			}
			continue
		}
		if !imp.Wildcard && imp.Path == path {
			return true
		}
		if imp.Wildcard && imp.Path == packageOf(path) {
			return true
		}
	}
	return false
}

// LineOf returns the 1-based line number of a byte offset.
func (f *File) LineOf(off int) int {
	if off > len(f.Source) {
		off = len(f.Source)
	}
	line := 1
	for _, b := range f.Source[:off] {
		if b == '\n' {
			line++
		}
	}
	return line
}

// Text returns the source text covered by the span.
func (f *File) Text(s Span) string {
	if s.Start < 0 || s.End > len(f.Source) || s.Start > s.End {
		return ""
	}
	return string(f.Source[s.Start:s.End])
}

// simpleTypeName strips generics, arrays, and package qualifiers from a
// type's written form: "java.util.List<String>" becomes "List".
func simpleTypeName(text string) string {
	if i := strings.IndexByte(text, '<'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "[]")
	if i := strings.LastIndexByte(text, '.'); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimSpace(text)
}

// packageOf returns the package part of a qualified type name, "" when
// the name has no package.
func packageOf(qualified string) string {
	i := strings.LastIndexByte(qualified, '.')
	if i < 0 {
		return ""
	}
	return qualified[:i]
}
