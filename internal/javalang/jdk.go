package javalang

import (
	"strings"
)

// boxedNames maps the scalar kinds to their wrapper classes.
var boxedNames = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

// BoxedName returns the wrapper class for a scalar kind, "" otherwise.
func BoxedName(primitive string) string { return boxedNames[primitive] }

// javaLangTypes lists the java.lang names importable without an import
// statement. Simple names resolve against this set last, after explicit
// imports and same-file declarations.
var javaLangTypes = map[string]bool{
	"Object": true, "String": true, "CharSequence": true, "StringBuilder": true,
	"StringBuffer": true, "Boolean": true, "Byte": true, "Character": true,
	"Short": true, "Integer": true, "Long": true, "Float": true, "Double": true,
	"Number": true, "Math": true, "Class": true, "ClassLoader": true,
	"Comparable": true, "Iterable": true, "Runnable": true, "Thread": true,
	"Throwable": true, "Exception": true, "RuntimeException": true, "Error": true,
	"IllegalArgumentException": true, "IllegalStateException": true,
	"NullPointerException": true, "IndexOutOfBoundsException": true,
	"ArrayIndexOutOfBoundsException": true, "StringIndexOutOfBoundsException": true,
	"NumberFormatException": true, "UnsupportedOperationException": true,
	"ClassCastException": true, "ArithmeticException": true,
	"InterruptedException": true, "CloneNotSupportedException": true,
	"ReflectiveOperationException": true, "ClassNotFoundException": true,
	"NoSuchMethodException": true, "IllegalAccessException": true,
	"InstantiationException": true, "AssertionError": true,
	"OutOfMemoryError": true, "StackOverflowError": true, "LinkageError": true,
	"NoClassDefFoundError": true, "Enum": true, "Record": true, "Void": true,
	"System": true, "Deprecated": true, "Override": true, "SuppressWarnings": true,
	"SafeVarargs": true, "FunctionalInterface": true, "AutoCloseable": true,
	"Cloneable": true, "Process": true, "ProcessBuilder": true,
}

// jdkSupertypes maps qualified JDK types to their direct supertypes.
// The closure over this map answers the classifier's assignability
// questions without a real type system.
var jdkSupertypes = map[string][]string{
	// collections
	"java.util.Collection":                      {"java.lang.Iterable"},
	"java.util.List":                            {"java.util.Collection"},
	"java.util.Set":                             {"java.util.Collection"},
	"java.util.Queue":                           {"java.util.Collection"},
	"java.util.Deque":                           {"java.util.Queue"},
	"java.util.SortedSet":                       {"java.util.Set"},
	"java.util.NavigableSet":                    {"java.util.SortedSet"},
	"java.util.AbstractCollection":              {"java.util.Collection"},
	"java.util.AbstractList":                    {"java.util.AbstractCollection", "java.util.List"},
	"java.util.AbstractSet":                     {"java.util.AbstractCollection", "java.util.Set"},
	"java.util.ArrayList":                       {"java.util.AbstractList", "java.util.List"},
	"java.util.LinkedList":                      {"java.util.AbstractList", "java.util.List", "java.util.Deque"},
	"java.util.Vector":                          {"java.util.AbstractList", "java.util.List"},
	"java.util.Stack":                           {"java.util.Vector"},
	"java.util.HashSet":                         {"java.util.AbstractSet", "java.util.Set"},
	"java.util.LinkedHashSet":                   {"java.util.HashSet", "java.util.Set"},
	"java.util.TreeSet":                         {"java.util.AbstractSet", "java.util.NavigableSet"},
	"java.util.EnumSet":                         {"java.util.AbstractSet", "java.util.Set"},
	"java.util.ArrayDeque":                      {"java.util.AbstractCollection", "java.util.Deque"},
	"java.util.PriorityQueue":                   {"java.util.AbstractCollection", "java.util.Queue"},
	"java.util.concurrent.BlockingQueue":        {"java.util.Queue"},
	"java.util.concurrent.CopyOnWriteArrayList": {"java.util.List"},
	"java.util.concurrent.CopyOnWriteArraySet":  {"java.util.AbstractSet", "java.util.Set"},
	"java.util.concurrent.ConcurrentLinkedQueue": {"java.util.AbstractCollection", "java.util.Queue"},
	"java.util.concurrent.LinkedBlockingQueue":   {"java.util.AbstractCollection", "java.util.concurrent.BlockingQueue"},

	// maps (a Map is not a Collection)
	"java.util.SortedMap":                     {"java.util.Map"},
	"java.util.NavigableMap":                  {"java.util.SortedMap"},
	"java.util.AbstractMap":                   {"java.util.Map"},
	"java.util.HashMap":                       {"java.util.AbstractMap", "java.util.Map"},
	"java.util.LinkedHashMap":                 {"java.util.HashMap", "java.util.Map"},
	"java.util.TreeMap":                       {"java.util.AbstractMap", "java.util.NavigableMap"},
	"java.util.WeakHashMap":                   {"java.util.AbstractMap", "java.util.Map"},
	"java.util.IdentityHashMap":               {"java.util.AbstractMap", "java.util.Map"},
	"java.util.EnumMap":                       {"java.util.AbstractMap", "java.util.Map"},
	"java.util.Hashtable":                     {"java.util.Map"},
	"java.util.Properties":                    {"java.util.Hashtable"},
	"java.util.concurrent.ConcurrentMap":      {"java.util.Map"},
	"java.util.concurrent.ConcurrentHashMap":  {"java.util.AbstractMap", "java.util.concurrent.ConcurrentMap"},
	"java.util.concurrent.ConcurrentSkipListMap": {"java.util.AbstractMap", "java.util.concurrent.ConcurrentMap"},

	// numbers
	"java.lang.Byte":                             {"java.lang.Number"},
	"java.lang.Short":                            {"java.lang.Number"},
	"java.lang.Integer":                          {"java.lang.Number"},
	"java.lang.Long":                             {"java.lang.Number"},
	"java.lang.Float":                            {"java.lang.Number"},
	"java.lang.Double":                           {"java.lang.Number"},
	"java.math.BigInteger":                       {"java.lang.Number"},
	"java.math.BigDecimal":                       {"java.lang.Number"},
	"java.util.concurrent.atomic.AtomicInteger":  {"java.lang.Number"},
	"java.util.concurrent.atomic.AtomicLong":     {"java.lang.Number"},

	// text
	"java.lang.String":        {"java.lang.CharSequence", "java.lang.Comparable"},
	"java.lang.StringBuilder": {"java.lang.CharSequence"},
	"java.lang.StringBuffer":  {"java.lang.CharSequence"},

	// time
	"java.util.Date":               {"java.lang.Comparable"},
	"java.sql.Date":                {"java.util.Date"},
	"java.sql.Time":                {"java.util.Date"},
	"java.sql.Timestamp":           {"java.util.Date"},
	"java.util.GregorianCalendar":  {"java.util.Calendar"},
	"java.util.Calendar":           {"java.lang.Comparable"},

	// throwables
	"java.lang.Exception":                       {"java.lang.Throwable"},
	"java.lang.Error":                           {"java.lang.Throwable"},
	"java.lang.RuntimeException":                {"java.lang.Exception"},
	"java.lang.IllegalArgumentException":        {"java.lang.RuntimeException"},
	"java.lang.NumberFormatException":           {"java.lang.IllegalArgumentException"},
	"java.lang.IllegalStateException":           {"java.lang.RuntimeException"},
	"java.lang.NullPointerException":            {"java.lang.RuntimeException"},
	"java.lang.IndexOutOfBoundsException":       {"java.lang.RuntimeException"},
	"java.lang.ArrayIndexOutOfBoundsException":  {"java.lang.IndexOutOfBoundsException"},
	"java.lang.StringIndexOutOfBoundsException": {"java.lang.IndexOutOfBoundsException"},
	"java.lang.UnsupportedOperationException":   {"java.lang.RuntimeException"},
	"java.lang.ClassCastException":              {"java.lang.RuntimeException"},
	"java.lang.ArithmeticException":             {"java.lang.RuntimeException"},
	"java.util.ConcurrentModificationException": {"java.lang.RuntimeException"},
	"java.lang.InterruptedException":            {"java.lang.Exception"},
	"java.lang.CloneNotSupportedException":      {"java.lang.Exception"},
	"java.lang.ReflectiveOperationException":    {"java.lang.Exception"},
	"java.lang.ClassNotFoundException":          {"java.lang.ReflectiveOperationException"},
	"java.lang.NoSuchMethodException":           {"java.lang.ReflectiveOperationException"},
	"java.lang.IllegalAccessException":          {"java.lang.ReflectiveOperationException"},
	"java.lang.InstantiationException":          {"java.lang.ReflectiveOperationException"},
	"java.io.IOException":                       {"java.lang.Exception"},
	"java.io.FileNotFoundException":             {"java.io.IOException"},
	"java.io.UncheckedIOException":              {"java.lang.RuntimeException"},
	"java.sql.SQLException":                     {"java.lang.Exception"},
	"java.lang.AssertionError":                  {"java.lang.Error"},
	"java.lang.OutOfMemoryError":                {"java.lang.Error"},
	"java.lang.StackOverflowError":              {"java.lang.Error"},
	"java.lang.LinkageError":                    {"java.lang.Error"},
	"java.lang.NoClassDefFoundError":            {"java.lang.LinkageError"},
}

// jdkEnums lists well-known JDK enumerated types for enum-valued field
// detection when the enum is not declared in the same file.
var jdkEnums = map[string]bool{
	"java.lang.Thread.State":           true,
	"java.util.concurrent.TimeUnit":    true,
	"java.time.DayOfWeek":              true,
	"java.time.Month":                  true,
	"java.math.RoundingMode":           true,
	"java.nio.file.StandardOpenOption": true,
}

// KnownType reports whether the qualified name appears in the JDK
// knowledge table.
func KnownType(qualified string) bool {
	if _, ok := jdkSupertypes[qualified]; ok {
		return true
	}
	if jdkEnums[qualified] {
		return true
	}
	pkg, name := packageOf(qualified), qualified
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		name = qualified[i+1:]
	}
	if pkg == "java.lang" && javaLangTypes[name] {
		return true
	}
	switch qualified {
	case "java.util.Map", "java.util.Calendar", "java.lang.Number",
		"java.lang.Iterable", "java.lang.Throwable", "java.lang.Object":
		return true
	}
	return false
}

// Resolver answers type questions for one file: resolving simple names
// to qualified names through imports and same-file declarations, and
// assignability through the JDK knowledge table.
type Resolver struct {
	file    *File
	classes map[string]*Class // simple name -> same-file declaration
}

// NewResolver builds a resolver over the file's imports and declarations.
func NewResolver(f *File) *Resolver {
	r := &Resolver{file: f, classes: make(map[string]*Class)}
	for _, c := range f.AllClasses() {
		if _, taken := r.classes[c.Name]; !taken {
			r.classes[c.Name] = c
		}
	}
	return r
}

// ClassNamed returns the same-file declaration with the given simple
// name, nil when the file declares none.
func (r *Resolver) ClassNamed(name string) *Class { return r.classes[name] }

// Qualify resolves a written base type name to a qualified name.
// Resolution order: already-qualified text, same-file declarations,
// explicit imports, java.lang implicits, wildcard imports against the
// knowledge table. Unresolvable names return "".
func (r *Resolver) Qualify(base string) string {
	if base == "" {
		return ""
	}
	if strings.ContainsRune(base, '.') {
		return base
	}
	if c, ok := r.classes[base]; ok {
		return c.QualifiedName()
	}
	for _, imp := range r.file.Imports {
		if imp.Static || imp.Wildcard {
			continue
		}
		if i := strings.LastIndexByte(imp.Path, '.'); i >= 0 && imp.Path[i+1:] == base {
			return imp.Path
		}
	}
	if javaLangTypes[base] {
		return "java.lang." + base
	}
	for _, imp := range r.file.Imports {
		if imp.Static || !imp.Wildcard {
			continue
		}
		if candidate := imp.Path + "." + base; KnownType(candidate) {
			return candidate
		}
	}
	return ""
}

// TypeQualifiedName returns the qualified name templates see for a
// declared type. Scalars map to their wrapper class, arrays resolve to
// their element type, and a single-argument generic resolves to its
// argument, so "List<String>" yields "java.lang.String". Scalar arrays
// and unresolvable types yield "".
func (r *Resolver) TypeQualifiedName(t TypeRef) string {
	if t.Void {
		return ""
	}
	if t.Primitive {
		if t.IsArray() {
			return ""
		}
		return boxedNames[t.Base]
	}
	if len(t.Args) == 1 && t.SingleGeneric() {
		arg, _ := t.FirstArg()
		return r.TypeQualifiedName(arg)
	}
	return r.Qualify(t.Base)
}

// AssignableTo reports whether the declared type is assignable to the
// target qualified type. Scalars and void are never assignable; arrays
// are assignable only to the universal root; unresolvable types are
// assignable to nothing.
func (r *Resolver) AssignableTo(t TypeRef, target string) bool {
	if t.Void || t.Primitive {
		return false
	}
	if t.IsArray() {
		return target == "java.lang.Object"
	}
	q := r.Qualify(t.Base)
	if q == "" {
		return false
	}
	if target == "java.lang.Object" {
		return true
	}
	return r.assignableQualified(q, target, make(map[string]bool))
}

func (r *Resolver) assignableQualified(q, target string, seen map[string]bool) bool {
	if q == target {
		return true
	}
	if seen[q] {
		return false
	}
	seen[q] = true
	for _, super := range jdkSupertypes[q] {
		if r.assignableQualified(super, target, seen) {
			return true
		}
	}
	// same-file declarations contribute their extends/implements edges
	name := q
	if i := strings.LastIndexByte(q, '.'); i >= 0 {
		name = q[i+1:]
	}
	if c, ok := r.classes[name]; ok && c.QualifiedName() == q {
		if c.Super != "" {
			if sq := r.Qualify(simpleTypeName(c.Super)); sq != "" && r.assignableQualified(sq, target, seen) {
				return true
			}
		}
		for _, it := range c.Interfaces {
			if iq := r.Qualify(simpleTypeName(it)); iq != "" && r.assignableQualified(iq, target, seen) {
				return true
			}
		}
	}
	return false
}

// IsThrowable reports whether the class transitively extends the
// throwable root, following same-file superclasses and the knowledge
// table. Unresolvable chains report false.
func (r *Resolver) IsThrowable(c *Class) bool {
	super := c.SuperName()
	if super == "" {
		return false
	}
	sq := r.Qualify(super)
	if sq == "" {
		return false
	}
	return r.assignableQualified(sq, "java.lang.Throwable", make(map[string]bool))
}

// IsEnumType reports whether the declared type names an enumerated type,
// through a same-file enum declaration or the known JDK enums.
func (r *Resolver) IsEnumType(t TypeRef) bool {
	if t.Void || t.Primitive || t.IsArray() {
		return false
	}
	if c, ok := r.classes[t.SimpleName()]; ok {
		return c.Kind == KindEnum
	}
	q := r.Qualify(t.Base)
	return q != "" && jdkEnums[q]
}
