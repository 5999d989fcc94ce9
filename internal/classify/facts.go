package classify

import "strings"

// ClassFacts is the class-level view templates render against. Facts
// are built fresh for each generation pass and discarded with it.
type ClassFacts struct {
	Name           string
	QualifiedName  string
	HasSuper       bool
	SuperName      string
	SuperQualified string
	Interfaces     []string
	Exception      bool
	Enum           bool
	Abstract       bool
	Deprecated     bool
}

// Implements reports whether the class directly declares the interface.
// The name may be simple or qualified, with or without type arguments.
func (c *ClassFacts) Implements(name string) bool {
	want := name
	if i := strings.IndexByte(want, '<'); i >= 0 {
		want = want[:i]
	}
	if i := strings.LastIndexByte(want, '.'); i >= 0 {
		want = want[i+1:]
	}
	for _, it := range c.Interfaces {
		if it == want {
			return true
		}
	}
	return false
}

// TypeFacts is the category view of one declared type. Categories are
// not mutually exclusive: an ArrayList is both List and Collection. A
// type the resolver cannot place keeps every category false.
type TypeFacts struct {
	Text          string // the type as written
	SimpleName    string
	QualifiedName string // boxed name for scalars, element for single generics

	Void           bool
	Primitive      bool // one of the scalar kinds, or an array of one
	Array          bool
	PrimitiveArray bool
	ObjectArray    bool
	String         bool
	StringArray    bool
	Boolean        bool
	Numeric        bool
	Collection     bool
	List           bool
	Set            bool
	Map            bool
	Date           bool
	Calendar       bool
	Enum           bool
	SingleGeneric  bool
}

// MemberFacts is one field's or getter's classification record. The
// type categories are promoted from TypeFacts; the rest mirrors the
// member's own modifiers. Class is a back-reference only.
type MemberFacts struct {
	TypeFacts

	Class *ClassFacts

	Name       string // field name, or the getter's implied field name
	Accessor   string // expression reading the value: "name" or "getName()"
	MethodName string // getter method name, "" for fields
	GetterCall string // matching getter call for a field, "" if none

	Getter     bool
	Constant   bool
	Static     bool
	Transient  bool
	Volatile   bool
	Deprecated bool
	Visibility string
}
