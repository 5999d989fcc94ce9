package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJava(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := strings.TrimPrefix(dedent.Dedent(src), "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func commandOptions() generateOptions {
	return generateOptions{
		Template:    "default",
		Method:      "toString",
		Conflict:    "replace",
		Insert:      "last",
		CaretOffset: -1,
	}
}

func TestRunGenerateDryRunMutatesNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;
	    private int age;
	}
	`)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	opts := commandOptions()
	opts.DryRun = true
	run, err := runGenerate(context.Background(), []string{path}, opts)
	require.NoError(t, err)

	require.Len(t, run.Updated, 1)
	assert.Equal(t, "Person", run.Updated[0].Class)
	assert.False(t, run.Written)
	assert.Greater(t, run.Updated[0].StartLine, 0)
	assert.GreaterOrEqual(t, run.Updated[0].EndLine, run.Updated[0].StartLine)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "dry run must not touch the file")
}

func TestRunGenerateWritesToString(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;
	    private int age;
	}
	`)

	run, err := runGenerate(context.Background(), []string{path}, commandOptions())
	require.NoError(t, err)
	require.Len(t, run.Updated, 1)
	assert.True(t, run.Written)
	assert.False(t, run.Updated[0].Replaced)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(after), "public String toString()")
	assert.Contains(t, string(after), "StringBuilder")
	assert.Contains(t, string(after), "@Override")
}

func TestRunGenerateIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;
	}
	`)

	_, err := runGenerate(context.Background(), []string{path}, commandOptions())
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	run, err := runGenerate(context.Background(), []string{path}, commandOptions())
	require.NoError(t, err)
	assert.Empty(t, run.Updated)
	require.Len(t, run.Skipped, 1)
	assert.Equal(t, "already up to date", run.Skipped[0].Reason)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunGenerateBatchWritesAll(t *testing.T) {
	dir := t.TempDir()
	person := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;
	}
	`)
	address := writeJava(t, dir, "Address.java", `
	package com.acme;

	public class Address {
	    private String street;
	}
	`)

	run, err := runGenerate(context.Background(), []string{person, address}, commandOptions())
	require.NoError(t, err)
	assert.Len(t, run.Updated, 2)
	assert.True(t, run.Written)

	for _, path := range []string{person, address} {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "public String toString()", path)
	}
}

func TestRunGenerateConflictCancelSkips(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;

	    @Override
	    public String toString() {
	        return "Person";
	    }
	}
	`)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	opts := commandOptions()
	opts.Conflict = "cancel"
	run, err := runGenerate(context.Background(), []string{path}, opts)
	require.NoError(t, err)

	assert.Empty(t, run.Updated)
	require.Len(t, run.Skipped, 1)
	assert.Equal(t, "toString() already exists", run.Skipped[0].Reason)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunGenerateConflictReplaceRewrites(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;

	    @Override
	    public String toString() {
	        return "Person";
	    }
	}
	`)

	run, err := runGenerate(context.Background(), []string{path}, commandOptions())
	require.NoError(t, err)
	require.Len(t, run.Updated, 1)
	assert.True(t, run.Updated[0].Replaced)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(after), "StringBuilder")
	assert.NotContains(t, string(after), `return "Person";`)
	assert.Equal(t, 1, strings.Count(string(after), "public String toString()"))
}

func TestRunGenerateConflictDuplicateKeepsBoth(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;

	    @Override
	    public String toString() {
	        return "Person";
	    }
	}
	`)

	opts := commandOptions()
	opts.Conflict = "duplicate"
	_, err := runGenerate(context.Background(), []string{path}, opts)
	require.NoError(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(after), "public String toString()"))
}

func TestRunGenerateSkipsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	broken := writeJava(t, dir, "Broken.java", `
	package com.acme;

	public class Broken {
	    private String name
	`)
	valid := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;
	}
	`)

	run, err := runGenerate(context.Background(), []string{broken, valid}, commandOptions())
	require.NoError(t, err)

	require.Len(t, run.Skipped, 1)
	assert.Equal(t, broken, run.Skipped[0].Path)
	assert.Equal(t, "syntax errors", run.Skipped[0].Reason)
	require.Len(t, run.Updated, 1)
	assert.Equal(t, valid, run.Updated[0].Path)
}

func TestRunGenerateTargetsNamedClass(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;
	}

	class Address {
	    private String street;
	}
	`)

	opts := commandOptions()
	opts.Class = "Address"
	run, err := runGenerate(context.Background(), []string{path}, opts)
	require.NoError(t, err)

	require.Len(t, run.Updated, 1)
	assert.Equal(t, "Address", run.Updated[0].Class)
}

func TestRunGenerateMissingNamedClassSkips(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;
	}
	`)

	opts := commandOptions()
	opts.Class = "Order"
	run, err := runGenerate(context.Background(), []string{path}, opts)
	require.NoError(t, err)

	assert.Empty(t, run.Updated)
	require.Len(t, run.Skipped, 1)
	assert.Equal(t, "no class named Order", run.Skipped[0].Reason)
}

func TestRunGenerateNothingToGenerate(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "Marker.java", `
	package com.acme;

	public class Marker {
	}
	`)

	run, err := runGenerate(context.Background(), []string{path}, commandOptions())
	require.NoError(t, err)

	assert.Empty(t, run.Updated)
	require.Len(t, run.Skipped, 1)
	assert.Equal(t, "nothing to generate", run.Skipped[0].Reason)
}

func TestRunGenerateAutoImports(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;
	}
	`)

	opts := commandOptions()
	opts.AutoImports = []string{"java.util.Objects"}
	run, err := runGenerate(context.Background(), []string{path}, opts)
	require.NoError(t, err)

	require.Len(t, run.Updated, 1)
	assert.Contains(t, run.Updated[0].Imports, "java.util.Objects")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(after), "import java.util.Objects;")
}

func TestRunGenerateShowDiff(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;
	}
	`)

	opts := commandOptions()
	opts.DryRun = true
	opts.ShowDiff = true
	run, err := runGenerate(context.Background(), []string{path}, opts)
	require.NoError(t, err)

	require.Len(t, run.Updated, 1)
	assert.Contains(t, run.Updated[0].Diff, "+++ "+path)
	assert.Contains(t, run.Updated[0].Diff, "toString")
}

func TestRunGenerateUnknownTemplate(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "Person.java", `
	package com.acme;

	public class Person {
	    private String name;
	}
	`)

	opts := commandOptions()
	opts.Template = "defualt"
	_, err := runGenerate(context.Background(), []string{path}, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
	assert.Contains(t, err.Error(), "default")
}

func TestRunGenerateRejectsUnknownMethod(t *testing.T) {
	opts := commandOptions()
	opts.Method = "hashCode"
	_, err := runGenerate(context.Background(), []string{"Person.java"}, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only toString is supported")
}

func TestRunGenerateCaretValidation(t *testing.T) {
	t.Run("at-caret needs an offset", func(t *testing.T) {
		opts := commandOptions()
		opts.Insert = "at-caret"
		_, err := runGenerate(context.Background(), []string{"Person.java"}, opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--caret-offset")
	})

	t.Run("offset forbids batches", func(t *testing.T) {
		opts := commandOptions()
		opts.Insert = "at-caret"
		opts.CaretOffset = 10
		_, err := runGenerate(context.Background(), []string{"A.java", "B.java"}, opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single file")
	})
}
