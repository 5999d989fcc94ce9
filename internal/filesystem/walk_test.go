package filesystem

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWalkSkipsDefaultIgnores(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"src/main/java/Person.java": "class Person {}",
		"target/Person.java":        "class Person {}",
		"build/Gen.java":            "class Gen {}",
		".git/HEAD":                 "ref",
	})

	files, err := JavaFiles(tmpDir, WalkOptions{})
	if err != nil {
		t.Fatalf("JavaFiles() error = %v", err)
	}

	want := []string{filepath.Join(tmpDir, "src/main/java/Person.java")}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("JavaFiles() = %v, want %v", files, want)
	}
}

func TestDirsSkipsIgnored(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"src/main/java/Person.java": "class Person {}",
		"target/Gen.java":           "class Gen {}",
	})

	dirs, err := Dirs(tmpDir, WalkOptions{})
	if err != nil {
		t.Fatalf("Dirs() error = %v", err)
	}

	want := map[string]bool{
		tmpDir:                                 true,
		filepath.Join(tmpDir, "src"):           true,
		filepath.Join(tmpDir, "src", "main"):   true,
		filepath.Join(tmpDir, "src/main/java"): true,
	}
	if len(dirs) != len(want) {
		t.Fatalf("Dirs() = %v, want the %d unignored directories", dirs, len(want))
	}
	for _, d := range dirs {
		if !want[d] {
			t.Errorf("Dirs() visited %s", d)
		}
	}
}

func TestWalkCustomIgnores(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"gen/Skipped.java": "class Skipped {}",
		"target/Kept.java": "class Kept {}",
	})

	files, err := JavaFiles(tmpDir, WalkOptions{IgnoreDirs: []string{"gen"}})
	if err != nil {
		t.Fatalf("JavaFiles() error = %v", err)
	}

	for _, f := range files {
		if strings.Contains(f, "Skipped") {
			t.Errorf("JavaFiles() visited custom ignored directory: %s", f)
		}
	}
	if len(files) != 1 || !strings.HasSuffix(files[0], "Kept.java") {
		t.Errorf("JavaFiles() = %v, want only Kept.java", files)
	}
}

func TestWalkHiddenFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		".hidden/Secret.java": "class Secret {}",
		"Visible.java":        "class Visible {}",
	})

	files, err := JavaFiles(tmpDir, WalkOptions{})
	if err != nil {
		t.Fatalf("JavaFiles() error = %v", err)
	}
	if len(files) != 1 || !strings.HasSuffix(files[0], "Visible.java") {
		t.Errorf("JavaFiles() = %v, want only Visible.java", files)
	}

	files, err = JavaFiles(tmpDir, WalkOptions{IncludeHidden: true})
	if err != nil {
		t.Fatalf("JavaFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("JavaFiles(IncludeHidden) = %v, want hidden file too", files)
	}
}

func TestJavaFilesSorted(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"b/Zebra.java": "class Zebra {}",
		"a/Apple.java": "class Apple {}",
		"Mango.java":   "class Mango {}",
	})

	files, err := JavaFiles(tmpDir, WalkOptions{})
	if err != nil {
		t.Fatalf("JavaFiles() error = %v", err)
	}

	want := []string{
		filepath.Join(tmpDir, "Mango.java"),
		filepath.Join(tmpDir, "a/Apple.java"),
		filepath.Join(tmpDir, "b/Zebra.java"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("JavaFiles() = %v, want %v", files, want)
	}
}

func TestResolveFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"Person.java": "class Person {}"})

	path := filepath.Join(tmpDir, "Person.java")
	files, err := Resolve([]string{path}, WalkOptions{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(files, []string{path}) {
		t.Errorf("Resolve() = %v, want %v", files, []string{path})
	}
}

func TestResolveRejectsNonJavaFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"pom.xml": "<project/>"})

	_, err := Resolve([]string{filepath.Join(tmpDir, "pom.xml")}, WalkOptions{})
	if err == nil || !strings.Contains(err.Error(), "not a Java source file") {
		t.Errorf("Resolve() error = %v, want not-a-Java-source-file", err)
	}
}

func TestResolveDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"src/A.java":      "class A {}",
		"src/sub/B.java":  "class B {}",
		"target/C.java":   "class C {}",
		"src/notes.txt":   "text",
		"src/sub/D.class": "bytes",
	})

	files, err := Resolve([]string{tmpDir}, WalkOptions{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []string{
		filepath.Join(tmpDir, "src/A.java"),
		filepath.Join(tmpDir, "src/sub/B.java"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Resolve() = %v, want %v", files, want)
	}
}

func TestResolveGlob(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"src/main/java/model/Person.java":  "class Person {}",
		"src/main/java/model/Address.java": "class Address {}",
		"src/main/java/Main.java":          "class Main {}",
	})

	files, err := Resolve([]string{filepath.Join(tmpDir, "src/**/model/*.java")}, WalkOptions{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []string{
		filepath.Join(tmpDir, "src/main/java/model/Address.java"),
		filepath.Join(tmpDir, "src/main/java/model/Person.java"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Resolve() = %v, want %v", files, want)
	}
}

func TestResolveGlobWithoutJavaMatches(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"readme.txt": "text"})

	_, err := Resolve([]string{filepath.Join(tmpDir, "*.txt")}, WalkOptions{})
	if err == nil || !strings.Contains(err.Error(), "no Java files match") {
		t.Errorf("Resolve() error = %v, want no-Java-files-match", err)
	}
}

func TestResolveMissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Resolve([]string{filepath.Join(tmpDir, "Missing.java")}, WalkOptions{})
	if err == nil {
		t.Error("Resolve() expected error for missing file")
	}
}

func TestResolveDedupes(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"Person.java": "class Person {}"})

	path := filepath.Join(tmpDir, "Person.java")
	files, err := Resolve([]string{path, tmpDir, filepath.Join(tmpDir, "*.java")}, WalkOptions{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(files, []string{path}) {
		t.Errorf("Resolve() = %v, want single %v", files, path)
	}
}
