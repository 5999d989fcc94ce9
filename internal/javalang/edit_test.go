package javalang

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openScope(t *testing.T, src []byte) (*File, *EditScope) {
	t.Helper()
	p, err := NewParser()
	require.NoError(t, err)
	f, err := p.Parse("Test.java", src)
	require.NoError(t, err)
	return f, f.NewEditScope(p)
}

func TestInsertAfterMember(t *testing.T) {
	src := fixture(`
	package demo;

	public class Person {
	    private String name;
	}
	`)
	f, s := openScope(t, src)

	c := f.PrimaryClass()
	require.Len(t, c.Members, 1)

	s.InsertAfter(c.Members[0].Span, "\n\n    public String greet() {\n        return name;\n    }")
	next, err := s.Commit()
	require.NoError(t, err)

	want := fixture(`
	package demo;

	public class Person {
	    private String name;

	    public String greet() {
	        return name;
	    }
	}
	`)
	assert.Equal(t, string(want), string(next.Source))
	assert.NotNil(t, next.PrimaryClass().FindMethodByName("greet"))
	assert.Equal(t, string(src), string(f.Source), "original is untouched")
}

func TestCommitWithoutEditsReturnsSameFile(t *testing.T) {
	f, s := openScope(t, fixture(`
	public class Empty {
	}
	`))

	next, err := s.Commit()
	require.NoError(t, err)
	assert.Same(t, f, next)
}

func TestCommitRejectsOverlappingEdits(t *testing.T) {
	f, s := openScope(t, fixture(`
	public class Person {
	    private String name;
	    private int age;
	}
	`))

	c := f.PrimaryClass()
	require.Len(t, c.Fields, 2)

	first := c.Fields[0].Span
	s.Remove(Span{Start: first.Start, End: first.End + 10})
	s.Remove(c.Fields[1].Span)

	next, err := s.Commit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlapping")
	assert.Nil(t, next)
}

func TestCommitRejectsStructureBreakingSplice(t *testing.T) {
	f, s := openScope(t, fixture(`
	public class Person {
	    private String name;
	}
	`))

	s.InsertAt(f.PrimaryClass().LBrace+1, "}")
	next, err := s.Commit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntactically invalid")
	assert.Nil(t, next)
}

func TestRemoveMethodAndReinsertIsByteStable(t *testing.T) {
	src := fixture(`
	package demo;

	public class Person {
	    private String name;

	    /**
	     * Debug form.
	     */
	    @Override
	    public String toString() {
	        return "Person{name='" + name + "'}";
	    }
	}
	`)
	f, s := openScope(t, src)

	c := f.PrimaryClass()
	m := c.FindMethodByName("toString")
	require.NotNil(t, m)
	require.NotNil(t, m.Javadoc)

	captured := f.Text(Span{Start: m.Javadoc.Span.Start, End: m.Span.End})
	indent := f.MemberIndent(c)

	s.RemoveMethod(m)
	s.InsertAfter(c.Members[0].Span, "\n\n"+indent+captured)
	next, err := s.Commit()
	require.NoError(t, err)

	assert.Equal(t, string(src), string(next.Source))
}

func TestRemoveMethodTakesLeadingWhitespaceAndJavadoc(t *testing.T) {
	f, s := openScope(t, fixture(`
	public class Person {
	    private String name;

	    /** Doc. */
	    public String toString() {
	        return name;
	    }
	}
	`))

	m := f.PrimaryClass().FindMethodByName("toString")
	require.NotNil(t, m)

	s.RemoveMethod(m)
	next, err := s.Commit()
	require.NoError(t, err)

	want := fixture(`
	public class Person {
	    private String name;
	}
	`)
	assert.Equal(t, string(want), string(next.Source))
}

func TestInsertBeforeMember(t *testing.T) {
	f, s := openScope(t, fixture(`
	public class Person {
	    private String name;
	}
	`))

	c := f.PrimaryClass()
	require.Len(t, c.Members, 1)

	s.InsertBefore(c.Members[0].Span, "private int age;\n    ")
	next, err := s.Commit()
	require.NoError(t, err)

	got := next.PrimaryClass()
	require.Len(t, got.Fields, 2)
	assert.Equal(t, "age", got.Fields[0].Name)
	assert.Equal(t, "name", got.Fields[1].Name)
}

func TestReplaceRange(t *testing.T) {
	f, s := openScope(t, fixture(`
	public class Person {
	    /** Old. */
	    public String toString() {
	        return "";
	    }
	}
	`))

	m := f.PrimaryClass().FindMethodByName("toString")
	require.NotNil(t, m)
	require.NotNil(t, m.Javadoc)

	s.ReplaceRange(m.Javadoc.Span, "/** Updated. */")
	next, err := s.Commit()
	require.NoError(t, err)

	got := next.PrimaryClass().FindMethodByName("toString")
	require.NotNil(t, got)
	require.NotNil(t, got.Javadoc)
	assert.Equal(t, "/** Updated. */", got.Javadoc.Text)
}

func TestAddImport(t *testing.T) {
	t.Run("appends after the last import", func(t *testing.T) {
		_, s := openScope(t, fixture(`
		package demo;

		import java.io.File;
		import java.util.List;

		public class Demo {
		}
		`))

		assert.True(t, s.AddImport("java.util.Date"))
		next, err := s.Commit()
		require.NoError(t, err)

		want := fixture(`
		package demo;

		import java.io.File;
		import java.util.List;
		import java.util.Date;

		public class Demo {
		}
		`)
		assert.Equal(t, string(want), string(next.Source))
		assert.True(t, next.HasImport("java.util.Date"))
	})

	t.Run("skips when a wildcard covers the path", func(t *testing.T) {
		_, s := openScope(t, fixture(`
		package demo;

		import java.util.*;

		public class Demo {
		}
		`))

		assert.False(t, s.AddImport("java.util.List"))
		assert.True(t, s.Empty())
	})

	t.Run("skips exact duplicates and java.lang", func(t *testing.T) {
		_, s := openScope(t, fixture(`
		package demo;

		import java.io.File;

		public class Demo {
		}
		`))

		assert.False(t, s.AddImport("java.io.File"))
		assert.False(t, s.AddImport("java.lang.String"))
		assert.True(t, s.Empty())
	})

	t.Run("stages each path once", func(t *testing.T) {
		_, s := openScope(t, fixture(`
		package demo;

		import java.io.File;

		public class Demo {
		}
		`))

		assert.True(t, s.AddImport("java.util.Date"))
		assert.False(t, s.AddImport("java.util.Date"))
		next, err := s.Commit()
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(next.Source), "import java.util.Date;"))
	})

	t.Run("opens an import section after the package", func(t *testing.T) {
		_, s := openScope(t, fixture(`
		package demo;

		public class Demo {
		}
		`))

		assert.True(t, s.AddImport("java.util.Date"))
		next, err := s.Commit()
		require.NoError(t, err)

		want := fixture(`
		package demo;

		import java.util.Date;

		public class Demo {
		}
		`)
		assert.Equal(t, string(want), string(next.Source))
	})

	t.Run("leads the file when there is no package", func(t *testing.T) {
		_, s := openScope(t, fixture(`
		public class Demo {
		}
		`))

		assert.True(t, s.AddImport("java.util.Date"))
		next, err := s.Commit()
		require.NoError(t, err)

		want := fixture(`
		import java.util.Date;

		public class Demo {
		}
		`)
		assert.Equal(t, string(want), string(next.Source))
	})
}

func TestMemberIndent(t *testing.T) {
	t.Run("reads the first member's line", func(t *testing.T) {
		f, _ := openScope(t, fixture(`
		public class Demo {
		    private int n;
		}
		`))
		assert.Equal(t, "    ", f.MemberIndent(f.PrimaryClass()))
	})

	t.Run("keeps tabs", func(t *testing.T) {
		f, _ := openScope(t, []byte("public class Demo {\n\tprivate int n;\n}\n"))
		assert.Equal(t, "\t", f.MemberIndent(f.PrimaryClass()))
	})

	t.Run("derives from the class line when empty", func(t *testing.T) {
		f, _ := openScope(t, fixture(`
		public class Demo {
		}
		`))
		assert.Equal(t, "    ", f.MemberIndent(f.PrimaryClass()))
	})

	t.Run("nested empty class indents one level deeper", func(t *testing.T) {
		f, _ := openScope(t, fixture(`
		public class Outer {
		    static class Inner {
		    }
		}
		`))
		inner := f.Class("Inner")
		require.NotNil(t, inner)
		assert.Equal(t, "        ", f.MemberIndent(inner))
	})
}
