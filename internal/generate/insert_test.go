package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/mynah/internal/javalang"
)

func TestFindEquals(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want bool
	}{
		{"canonical", "public boolean equals(Object o) { return false; }", true},
		{"qualified param", "public boolean equals(java.lang.Object o) { return false; }", true},
		{"static", "public static boolean equals(Object o) { return false; }", false},
		{"typed overload", "public boolean equals(String o) { return false; }", false},
		{"two params", "public boolean equals(Object a, Object b) { return false; }", false},
		{"wrong return", "public int equals(Object o) { return 0; }", false},
		{"varargs", "public boolean equals(Object... o) { return false; }", false},
		{"package private", "boolean equals(Object o) { return false; }", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, cl := parseClass(t, "class A {\n    "+tt.decl+"\n}\n")
			got := findEquals(cl, nil)
			if tt.want {
				require.NotNil(t, got)
				assert.Equal(t, "equals", got.Name)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestFindHashCode(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want bool
	}{
		{"canonical", "public int hashCode() { return 0; }", true},
		{"static", "public static int hashCode() { return 0; }", false},
		{"with param", "public int hashCode(int seed) { return seed; }", false},
		{"wrong return", "public long hashCode() { return 0L; }", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, cl := parseClass(t, "class A {\n    "+tt.decl+"\n}\n")
			got := findHashCode(cl, nil)
			assert.Equal(t, tt.want, got != nil)
		})
	}
}

func TestFindMain(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want bool
	}{
		{"canonical", "public static void main(String[] args) { }", true},
		{"qualified", "public static void main(java.lang.String[] args) { }", true},
		{"trailing dims", "public static void main(String args[]) { }", true},
		{"varargs", "public static void main(String... args) { }", false},
		{"not static", "public void main(String[] args) { }", false},
		{"not public", "static void main(String[] args) { }", false},
		{"wrong return", "public static int main(String[] args) { return 0; }", false},
		{"extra param", "public static void main(String[] args, int n) { }", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, cl := parseClass(t, "class A {\n    "+tt.decl+"\n}\n")
			got := findMain(cl, nil)
			assert.Equal(t, tt.want, got != nil)
		})
	}
}

func TestFindLastPrefersBottomMostMatch(t *testing.T) {
	_, _, cl := parseClass(t, `
	class A {
	    public int hashCode() { return 1; }

	    public int hashCode() { return 2; }
	}
	`)
	got := findHashCode(cl, nil)
	require.NotNil(t, got)
	assert.Same(t, cl.Methods[1], got)
}

func TestPlaceAtCaretBounds(t *testing.T) {
	_, _, cl := parseClass(t, `
	class A {
	    private int a;
	}
	`)

	assert.Equal(t, beforeClose, placeAtCaret(cl, -1, nil).kind)
	assert.Equal(t, afterOpen, placeAtCaret(cl, 0, nil).kind)
	assert.Equal(t, afterOpen, placeAtCaret(cl, cl.LBrace, nil).kind)
	assert.Equal(t, beforeClose, placeAtCaret(cl, cl.RBrace, nil).kind)
	assert.Equal(t, beforeClose, placeAtCaret(cl, cl.RBrace+10, nil).kind)
}

func TestPlaceAtCaretInsideMember(t *testing.T) {
	_, _, cl := parseClass(t, `
	class A {
	    private int a;

	    public void work() {
	    }
	}
	`)

	p := placeAtCaret(cl, cl.Fields[0].Span.Start+2, nil)
	assert.Equal(t, afterMember, p.kind)
	assert.Equal(t, cl.Fields[0].Span, p.member)

	p = placeAtCaret(cl, cl.Methods[0].Span.Start+2, nil)
	assert.Equal(t, afterMember, p.kind)
	assert.Equal(t, cl.Methods[0].Span, p.member)
}

func TestPlaceAtCaretInWhitespace(t *testing.T) {
	_, _, cl := parseClass(t, `
	class A {
	    private int a;

	    public void work() {
	    }

	    private int b;
	}
	`)

	// after a field: anchor before the next member
	p := placeAtCaret(cl, cl.Fields[0].Span.End+1, nil)
	assert.Equal(t, beforeMember, p.kind)
	assert.Equal(t, cl.Methods[0].Span.Start, p.member.Start)

	// after a method: anchor after it
	p = placeAtCaret(cl, cl.Methods[0].Span.End+1, nil)
	assert.Equal(t, afterMember, p.kind)
	assert.Equal(t, cl.Methods[0].Span, p.member)
}

func TestPlaceAtCaretWhitespaceBeforeDocumentedMember(t *testing.T) {
	_, _, cl := parseClass(t, `
	class A {
	    private int a;

	    /**
	     * Doc.
	     */
	    private int b;
	}
	`)

	p := placeAtCaret(cl, cl.Fields[0].Span.End+1, nil)
	assert.Equal(t, beforeMember, p.kind)
	assert.Equal(t, cl.Members[1].StartWithDoc(), p.member.Start)
}

func TestPlaceAtCaretSkipsNestedTypes(t *testing.T) {
	_, _, cl := parseClass(t, `
	class A {
	    private int a;

	    static class Inner {
	        private int x;
	    }
	}
	`)

	inner := cl.Nested[0]
	p := placeAtCaret(cl, inner.Span.Start+10, nil)
	assert.Equal(t, afterOpen, p.kind)
}

func TestPlaceAtCaretIgnoresReplacedMethod(t *testing.T) {
	_, _, cl := parseClass(t, `
	class A {
	    private int a;

	    public String toString() {
	        return "";
	    }
	}
	`)

	old := cl.FindMethodByName("toString")
	require.NotNil(t, old)

	p := placeAtCaret(cl, old.Span.Start+5, nil)
	assert.Equal(t, afterMember, p.kind)
	assert.Equal(t, old.Span, p.member)

	// with the method marked for removal the caret sits past every
	// remaining member
	p = placeAtCaret(cl, old.Span.Start+5, old)
	assert.Equal(t, afterMember, p.kind)
	assert.Equal(t, cl.Fields[0].Span, p.member)
}

func TestPlaceAfterEqualsHashCode(t *testing.T) {
	_, _, cl := parseClass(t, `
	class A {
	    public int hashCode() { return 0; }

	    public boolean equals(Object o) { return false; }

	    public void tail() { }
	}
	`)

	p := place(AfterEqualsHashCode, cl, -1, nil)
	assert.Equal(t, afterMember, p.kind)
	assert.Equal(t, cl.Methods[1].Span, p.member, "the later of the two anchors")
}

func TestPlaceAfterEqualsOnly(t *testing.T) {
	_, _, cl := parseClass(t, `
	class A {
	    public boolean equals(Object o) { return false; }
	}
	`)

	p := place(AfterEqualsHashCode, cl, -1, nil)
	assert.Equal(t, afterMember, p.kind)
	assert.Equal(t, cl.Methods[0].Span, p.member)
}

func TestPlaceAfterEqualsHashCodeFallback(t *testing.T) {
	_, _, cl := parseClass(t, `
	class A {
	    private int a;
	}
	`)

	assert.Equal(t, beforeClose, place(AfterEqualsHashCode, cl, -1, nil).kind)
}

func TestPlaceLastBeforeTrailingMain(t *testing.T) {
	_, _, cl := parseClass(t, `
	class A {
	    public void work() { }

	    public static void main(String[] args) { }
	}
	`)

	p := place(Last, cl, -1, nil)
	assert.Equal(t, beforeMember, p.kind)
	assert.Equal(t, cl.Methods[1].Span.Start, p.member.Start)
}

func TestPlaceLastWithMainNotLast(t *testing.T) {
	_, _, cl := parseClass(t, `
	class A {
	    public static void main(String[] args) { }

	    public void work() { }
	}
	`)

	assert.Equal(t, beforeClose, place(Last, cl, -1, nil).kind)
}

func TestSpanWithDocCoversJavadoc(t *testing.T) {
	_, f, cl := parseClass(t, `
	class A {
	    /**
	     * Entry point.
	     */
	    public static void main(String[] args) { }
	}
	`)

	p := place(Last, cl, -1, nil)
	assert.Equal(t, beforeMember, p.kind)
	assert.Equal(t, "/**", string(f.Source[p.member.Start:p.member.Start+3]))
}

func TestLineStartAndBlankBetween(t *testing.T) {
	src := []byte("ab\n  cd\n  }")

	assert.Equal(t, 0, lineStart(src, 1))
	assert.Equal(t, 3, lineStart(src, 5))
	assert.Equal(t, 8, lineStart(src, 10))

	assert.True(t, blankBetween(src, 8, 10))
	assert.True(t, blankBetween(src, 5, 5))
	assert.False(t, blankBetween(src, 3, 7))
}
