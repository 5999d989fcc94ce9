// Package classify derives template-facing facts from a parsed class:
// category tags for each member's declared type, constant and getter
// detection, and class-level structure flags. Classification never
// fails; unknown types quietly yield all-false categories so that
// generation proceeds on degraded but safe facts.
package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/simonhull/mynah/internal/javalang"
)

// Classifier computes facts against one file's import resolution.
type Classifier struct {
	res *javalang.Resolver
}

// New returns a classifier backed by the resolver.
func New(res *javalang.Resolver) *Classifier {
	return &Classifier{res: res}
}

// Class builds the class-level facts.
func (c *Classifier) Class(cl *javalang.Class) *ClassFacts {
	facts := &ClassFacts{
		Name:          cl.Name,
		QualifiedName: cl.QualifiedName(),
		HasSuper:      cl.HasSuper(),
		Interfaces:    cl.InterfaceNames(),
		Exception:     c.res.IsThrowable(cl),
		Enum:          cl.Kind == javalang.KindEnum,
		Abstract:      cl.Modifiers.Abstract,
		Deprecated:    cl.IsDeprecated(),
	}
	if facts.HasSuper {
		facts.SuperName = cl.SuperName()
		facts.SuperQualified = c.res.Qualify(cl.SuperName())
	}
	return facts
}

// Field classifies one field declarator.
func (c *Classifier) Field(f *javalang.Field, class *ClassFacts) *MemberFacts {
	return &MemberFacts{
		TypeFacts:  c.Type(f.Type),
		Class:      class,
		Name:       f.Name,
		Accessor:   f.Name,
		Constant:   IsConstant(f),
		Static:     f.Modifiers.Static,
		Transient:  f.Modifiers.Transient,
		Volatile:   f.Modifiers.Volatile,
		Deprecated: f.IsDeprecated(),
		Visibility: f.Modifiers.Visibility(),
	}
}

// Getter classifies a method as a getter-shaped member: the member name
// is the implied field name and the accessor is the method call. Getter
// is false when the method does not satisfy the getter rules.
func (c *Classifier) Getter(m *javalang.Method, class *ClassFacts) *MemberFacts {
	return &MemberFacts{
		TypeFacts:  c.Type(m.Returns),
		Class:      class,
		Name:       ImpliedFieldName(m.Name),
		Accessor:   m.Name + "()",
		MethodName: m.Name,
		Getter:     c.IsGetter(m),
		Static:     m.Modifiers.Static,
		Deprecated: m.IsDeprecated(),
		Visibility: m.Modifiers.Visibility(),
	}
}

// Type computes the category tags for a declared type. Order matters:
// void first, then the scalar kinds, and only then the assignability
// categories, so primitive and boxed checks cannot cross-talk.
func (c *Classifier) Type(t javalang.TypeRef) TypeFacts {
	f := TypeFacts{
		Text:          t.Text,
		SimpleName:    t.SimpleName(),
		QualifiedName: c.res.TypeQualifiedName(t),
		Array:         t.IsArray(),
		SingleGeneric: t.SingleGeneric() && len(t.Args) == 1,
	}
	if t.IsVoid() {
		f.Void = true
		return f
	}

	prim := primitiveKind(t.Base)
	f.Primitive = prim
	if f.Array {
		f.PrimitiveArray = prim
		f.ObjectArray = !prim
		if !prim {
			f.StringArray = c.res.AssignableTo(t.Element(), "java.lang.String")
		}
	}
	if prim {
		if !f.Array {
			f.Boolean = t.Base == "boolean"
			f.Numeric = numericKinds[t.Base]
		}
		return f
	}

	f.Boolean = c.res.AssignableTo(t, "java.lang.Boolean")
	f.Numeric = c.res.AssignableTo(t, "java.lang.Number")
	f.String = c.res.AssignableTo(t, "java.lang.String")
	f.Collection = c.res.AssignableTo(t, "java.util.Collection")
	f.List = c.res.AssignableTo(t, "java.util.List")
	f.Set = c.res.AssignableTo(t, "java.util.Set")
	f.Map = c.res.AssignableTo(t, "java.util.Map")
	f.Date = c.res.AssignableTo(t, "java.util.Date")
	f.Calendar = c.res.AssignableTo(t, "java.util.Calendar")
	f.Enum = c.res.IsEnumType(t)
	return f
}

// IsGetter applies the getter naming rules: a non-void return plus a
// get prefix, or an is/has prefix returning boolean.
func (c *Classifier) IsGetter(m *javalang.Method) bool {
	if m.Constructor || m.Returns.IsVoid() {
		return false
	}
	switch {
	case hasPrefixUpper(m.Name, "get"):
		return true
	case hasPrefixUpper(m.Name, "is"), hasPrefixUpper(m.Name, "has"):
		return c.isBoolean(m.Returns)
	}
	return false
}

func (c *Classifier) isBoolean(t javalang.TypeRef) bool {
	if !t.IsArray() && primitiveKind(t.Base) {
		return t.Base == "boolean"
	}
	return c.res.AssignableTo(t, "java.lang.Boolean")
}

// IsConstant reports the constant-field rule: a static field whose name
// contains no lowercase character.
func IsConstant(f *javalang.Field) bool {
	if !f.Modifiers.Static {
		return false
	}
	return strings.IndexFunc(f.Name, unicode.IsLower) < 0
}

// ImpliedFieldName strips a get, is, or has prefix and lowercases the
// first remaining character: "getName" yields "name". Names without a
// getter prefix come back unchanged.
func ImpliedFieldName(name string) string {
	for _, p := range [...]string{"get", "is", "has"} {
		if hasPrefixUpper(name, p) {
			rest := name[len(p):]
			r, size := utf8.DecodeRuneInString(rest)
			return string(unicode.ToLower(r)) + rest[size:]
		}
	}
	return name
}

// primitiveKind reports whether base names one of the eight scalar
// kinds. Anything written from the java namespace is rejected before
// the kind check, so a library type can never read as primitive.
func primitiveKind(base string) bool {
	if strings.HasPrefix(base, "java") {
		return false
	}
	return javalang.IsPrimitiveName(base)
}

var numericKinds = map[string]bool{
	"byte":   true,
	"short":  true,
	"int":    true,
	"long":   true,
	"float":  true,
	"double": true,
}

// hasPrefixUpper reports whether name starts with prefix followed by an
// uppercase letter.
func hasPrefixUpper(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name[len(prefix):])
	return unicode.IsUpper(r)
}
