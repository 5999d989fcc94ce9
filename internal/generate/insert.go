package generate

import (
	"fmt"

	"github.com/simonhull/mynah/internal/javalang"
)

// InsertionPolicy picks where the generated method lands in the class
// body.
type InsertionPolicy int

const (
	Last InsertionPolicy = iota
	AfterEqualsHashCode
	AtCaret
)

func (p InsertionPolicy) String() string {
	switch p {
	case AfterEqualsHashCode:
		return "after-equals-hashcode"
	case AtCaret:
		return "at-caret"
	}
	return "last"
}

// ParseInsertionPolicy maps a flag value to its policy.
func ParseInsertionPolicy(s string) (InsertionPolicy, error) {
	switch s {
	case "last":
		return Last, nil
	case "after-equals-hashcode":
		return AfterEqualsHashCode, nil
	case "at-caret":
		return AtCaret, nil
	}
	return Last, fmt.Errorf("unknown insertion policy %q (want last, after-equals-hashcode, or at-caret)", s)
}

type placementKind int

const (
	afterMember placementKind = iota
	beforeMember
	afterOpen
	beforeClose
)

// placement is a resolved insertion point inside one class body.
type placement struct {
	kind   placementKind
	member javalang.Span // anchor span for afterMember/beforeMember
}

// place resolves the policy to a concrete point. skip is the method a
// Replace is about to remove; it never anchors the insertion, so the
// policies see the class as if the conflict were already gone.
func place(policy InsertionPolicy, cl *javalang.Class, caret int, skip *javalang.Method) placement {
	switch policy {
	case AtCaret:
		return placeAtCaret(cl, caret, skip)
	case AfterEqualsHashCode:
		later := laterOf(findEquals(cl, skip), findHashCode(cl, skip))
		if later == nil {
			return placeAtCaret(cl, caret, skip)
		}
		return placement{kind: afterMember, member: later.Span}
	default:
		if m := findMain(cl, skip); m != nil && m == lastMethod(cl, skip) {
			return placement{kind: beforeMember, member: spanWithDoc(cl, m)}
		}
		return placement{kind: beforeClose}
	}
}

// placeAtCaret walks the member list once instead of recursing up the
// tree: the member containing the caret anchors the insertion, caret in
// whitespace anchors on the preceding method or falls to the position
// itself, and a caret outside the body falls back to the structural
// bounds.
func placeAtCaret(cl *javalang.Class, caret int, skip *javalang.Method) placement {
	if caret < 0 || cl.NeedsSeparator {
		return placement{kind: beforeClose}
	}
	if caret < cl.MemberStart {
		// before the body, or inside an enum's constant list
		return placement{kind: afterOpen}
	}
	if caret >= cl.RBrace {
		return placement{kind: beforeClose}
	}

	var prev *javalang.Member
	for i := range cl.Members {
		mem := &cl.Members[i]
		if mem.Method != nil && mem.Method == skip {
			continue
		}
		if caret >= mem.StartWithDoc() && caret <= mem.Span.End {
			if mem.Kind == javalang.MemberType {
				// nested types are not anchors
				return placement{kind: afterOpen}
			}
			return placement{kind: afterMember, member: mem.Span}
		}
		if mem.Span.End <= caret {
			prev = mem
			continue
		}
		// caret sits in the whitespace before this member
		if prev != nil && (prev.Kind == javalang.MemberMethod || prev.Kind == javalang.MemberConstructor) {
			return placement{kind: afterMember, member: prev.Span}
		}
		return placement{kind: beforeMember, member: javalang.Span{Start: mem.StartWithDoc(), End: mem.Span.End}}
	}
	if prev != nil {
		return placement{kind: afterMember, member: prev.Span}
	}
	return placement{kind: afterOpen}
}

// stage writes the composed method into the scope at the resolved
// point. composed arrives fully indented; only the separators around it
// adapt to the surrounding bytes.
func stage(s *javalang.EditScope, f *javalang.File, cl *javalang.Class, p placement, composed, indent string) {
	switch p.kind {
	case afterMember:
		s.InsertAfter(p.member, "\n\n"+composed)
	case beforeMember:
		s.InsertAt(lineStart(f.Source, p.member.Start), composed+"\n\n")
	case afterOpen:
		text := "\n" + composed
		if len(cl.Members) > 0 {
			text += "\n"
		}
		s.InsertAt(cl.MemberStart, text)
	case beforeClose:
		off := cl.RBrace
		if ls := lineStart(f.Source, off); blankBetween(f.Source, ls, off) {
			off = ls
		}
		if cl.NeedsSeparator {
			// close the enum's constant list before the first member
			s.InsertAt(off, indent+";\n\n"+composed+"\n")
			return
		}
		s.InsertAt(off, "\n"+composed+"\n")
	}
}

// findEquals locates a real equals override: public, not static,
// boolean return, exactly one parameter of the object root type.
func findEquals(cl *javalang.Class, skip *javalang.Method) *javalang.Method {
	return findLast(cl, skip, func(m *javalang.Method) bool {
		return m.Name == "equals" &&
			m.Modifiers.Public && !m.Modifiers.Static &&
			m.Returns.Text == "boolean" &&
			len(m.Params) == 1 && isObjectParam(m.Params[0])
	})
}

// findHashCode locates a real hashCode override: public, not static,
// int return, no parameters.
func findHashCode(cl *javalang.Class, skip *javalang.Method) *javalang.Method {
	return findLast(cl, skip, func(m *javalang.Method) bool {
		return m.Name == "hashCode" &&
			m.Modifiers.Public && !m.Modifiers.Static &&
			m.Returns.Text == "int" && len(m.Params) == 0
	})
}

// findMain locates the entry point: public static void with a single
// String[] parameter. A String... parameter is not a match; the exact
// written type decides.
func findMain(cl *javalang.Class, skip *javalang.Method) *javalang.Method {
	return findLast(cl, skip, func(m *javalang.Method) bool {
		return m.Name == "main" &&
			m.Modifiers.Public && m.Modifiers.Static &&
			m.Returns.Text == "void" &&
			len(m.Params) == 1 && isStringArrayParam(m.Params[0])
	})
}

func isObjectParam(p javalang.Param) bool {
	return !p.Varargs && (p.Type.Text == "Object" || p.Type.Text == "java.lang.Object")
}

func isStringArrayParam(p javalang.Param) bool {
	return !p.Varargs && (p.Type.Text == "String[]" || p.Type.Text == "java.lang.String[]")
}

// findLast scans methods in reverse so duplicates resolve to the most
// recently declared match.
func findLast(cl *javalang.Class, skip *javalang.Method, pred func(*javalang.Method) bool) *javalang.Method {
	for i := len(cl.Methods) - 1; i >= 0; i-- {
		m := cl.Methods[i]
		if m == skip || !pred(m) {
			continue
		}
		return m
	}
	return nil
}

// lastMethod returns the method declared furthest down the class body.
func lastMethod(cl *javalang.Class, skip *javalang.Method) *javalang.Method {
	var last *javalang.Method
	for _, m := range cl.Methods {
		if m == skip {
			continue
		}
		if last == nil || m.Span.Start > last.Span.Start {
			last = m
		}
	}
	return last
}

func laterOf(a, b *javalang.Method) *javalang.Method {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Span.Start > a.Span.Start:
		return b
	}
	return a
}

// spanWithDoc widens a method's span to include its javadoc, so
// insert-before lands above the documentation.
func spanWithDoc(cl *javalang.Class, m *javalang.Method) javalang.Span {
	for i := range cl.Members {
		if cl.Members[i].Method == m {
			return javalang.Span{Start: cl.Members[i].StartWithDoc(), End: m.Span.End}
		}
	}
	return m.Span
}

// lineStart returns the offset of the first byte of the line containing
// off.
func lineStart(src []byte, off int) int {
	for off > 0 && src[off-1] != '\n' {
		off--
	}
	return off
}

// blankBetween reports whether the bytes in [from, to) are only spaces
// and tabs.
func blankBetween(src []byte, from, to int) bool {
	for _, b := range src[from:to] {
		if b != ' ' && b != '\t' {
			return false
		}
	}
	return true
}
