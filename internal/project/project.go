// Package project detects the build layout of a Java project so bare
// commands know where sources live without being pointed at them.
package project

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
)

// Build systems a project root can carry.
const (
	BuildMaven  = "maven"
	BuildGradle = "gradle"
	BuildPlain  = "plain"
)

var gradleFiles = []string{
	"build.gradle", "build.gradle.kts",
	"settings.gradle", "settings.gradle.kts",
}

// Info describes a detected project
type Info struct {
	Root        string   // Directory holding the build file (or the start dir for plain)
	Build       string   // BuildMaven, BuildGradle, or BuildPlain
	SourceRoots []string // Existing source directories under Root
}

// IsMavenProject checks if a directory contains pom.xml
func IsMavenProject(rootPath string) bool {
	return fileExists(filepath.Join(rootPath, "pom.xml"))
}

// IsGradleProject checks if a directory contains a Gradle build or settings file
func IsGradleProject(rootPath string) bool {
	for _, f := range gradleFiles {
		if fileExists(filepath.Join(rootPath, f)) {
			return true
		}
	}
	return false
}

// Detect walks upward from dir looking for a Maven or Gradle build
// file and collects the conventional source roots under it, including
// those of submodules. Without a build file the directory itself is
// the only source root.
func Detect(dir string) (*Info, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	root, build := findBuildFile(abs)
	if build == BuildPlain {
		return &Info{Root: abs, Build: BuildPlain, SourceRoots: []string{abs}}, nil
	}

	info := &Info{Root: root, Build: build, SourceRoots: sourceRoots(root, build)}
	if len(info.SourceRoots) == 0 {
		info.SourceRoots = []string{root}
	}
	return info, nil
}

// findBuildFile searches dir and its parents. Maven wins when a
// directory carries both build systems.
func findBuildFile(dir string) (string, string) {
	for {
		if IsMavenProject(dir) {
			return dir, BuildMaven
		}
		if IsGradleProject(dir) {
			return dir, BuildGradle
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", BuildPlain
		}
		dir = parent
	}
}

func sourceRoots(root, build string) []string {
	var roots []string
	add := func(dir string) {
		if dirExists(dir) {
			roots = append(roots, dir)
		}
	}

	add(filepath.Join(root, "src", "main", "java"))
	add(filepath.Join(root, "src", "test", "java"))

	switch build {
	case BuildMaven:
		for _, mod := range mavenModules(root) {
			add(filepath.Join(root, mod, "src", "main", "java"))
			add(filepath.Join(root, mod, "src", "test", "java"))
		}
	case BuildGradle:
		for _, sub := range gradleSubprojects(root) {
			add(filepath.Join(sub, "src", "main", "java"))
			add(filepath.Join(sub, "src", "test", "java"))
		}
	}

	return roots
}

// mavenModules reads the <modules> list from pom.xml. Best effort: a
// pom that fails to parse contributes no modules.
func mavenModules(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "pom.xml"))
	if err != nil {
		return nil
	}

	var pom struct {
		Modules []string `xml:"modules>module"`
	}
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil
	}
	return pom.Modules
}

// gradleSubprojects lists immediate child directories that carry their
// own Gradle build file. Settings scripts are not evaluated.
func gradleSubprojects(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var subs []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if fileExists(filepath.Join(dir, "build.gradle")) ||
			fileExists(filepath.Join(dir, "build.gradle.kts")) {
			subs = append(subs, dir)
		}
	}
	return subs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
