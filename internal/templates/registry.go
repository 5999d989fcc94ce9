package templates

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.tmpl builtin/index.yml
var builtinFS embed.FS

// Resource is one loadable template with its metadata.
type Resource struct {
	Name        string
	Description string
	Source      string
	Imports     []Import
	BuiltIn     bool
}

// Import is a type the template's output may need imported. When
// limits it to renders that trigger it: "" or "always" adds the import
// unconditionally, "arrays" only when an array member is rendered.
type Import struct {
	Path string `yaml:"path"`
	When string `yaml:"when"`
}

type indexFile struct {
	Templates []indexEntry `yaml:"templates"`
}

type indexEntry struct {
	Name        string   `yaml:"name"`
	File        string   `yaml:"file"`
	Description string   `yaml:"description"`
	Imports     []Import `yaml:"imports"`
}

// Registry resolves template names: built-ins first, then *.tmpl files
// in the user template directory, then explicit file paths.
type Registry struct {
	dir string
}

// NewRegistry returns a registry. dir may be empty when no user
// template directory is configured.
func NewRegistry(dir string) *Registry { return &Registry{dir: dir} }

// builtins loads the embedded resources in index order.
func builtins() ([]*Resource, error) {
	raw, err := builtinFS.ReadFile("builtin/index.yml")
	if err != nil {
		return nil, fmt.Errorf("reading builtin template index: %w", err)
	}
	var idx indexFile
	if err := yaml.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("parsing builtin template index: %w", err)
	}
	out := make([]*Resource, 0, len(idx.Templates))
	for _, e := range idx.Templates {
		src, err := builtinFS.ReadFile("builtin/" + e.File)
		if err != nil {
			return nil, fmt.Errorf("reading builtin template %q: %w", e.Name, err)
		}
		out = append(out, &Resource{
			Name:        e.Name,
			Description: e.Description,
			Source:      string(src),
			Imports:     e.Imports,
			BuiltIn:     true,
		})
	}
	return out, nil
}

// List returns the built-ins in index order followed by the user
// directory's templates sorted by name.
func (r *Registry) List() ([]*Resource, error) {
	out, err := builtins()
	if err != nil {
		return nil, err
	}
	if r.dir == "" {
		return out, nil
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("reading template directory %s: %w", r.dir, err)
	}
	var local []*Resource
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".tmpl") {
			continue
		}
		res, err := loadFile(filepath.Join(r.dir, ent.Name()))
		if err != nil {
			return nil, err
		}
		local = append(local, res)
	}
	sort.Slice(local, func(i, j int) bool { return local[i].Name < local[j].Name })
	return append(out, local...), nil
}

// Get resolves a template by name or file path. Unknown names come
// back with a closest-match suggestion when one is close enough.
func (r *Registry) Get(name string) (*Resource, error) {
	if strings.HasSuffix(name, ".tmpl") || strings.ContainsRune(name, os.PathSeparator) {
		return loadFile(name)
	}
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	for _, res := range all {
		if res.Name == name {
			return res, nil
		}
	}
	if hint := closest(name, all); hint != "" {
		return nil, fmt.Errorf("unknown template %q (did you mean %q?)", name, hint)
	}
	return nil, fmt.Errorf("unknown template %q", name)
}

// Export writes the built-in templates into dir as editable files.
func (r *Registry) Export(dir string) error {
	all, err := builtins()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, res := range all {
		path := filepath.Join(dir, res.Name+".tmpl")
		if err := os.WriteFile(path, []byte(res.Source), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func loadFile(path string) (*Resource, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), ".tmpl")
	return &Resource{Name: name, Source: string(src)}, nil
}

// closest returns the best fuzzy match for a mistyped template name.
func closest(name string, all []*Resource) string {
	best, score := "", float32(0)
	for _, res := range all {
		s, err := edlib.StringsSimilarity(name, res.Name, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if s > score {
			best, score = res.Name, s
		}
	}
	if score < 0.7 {
		return ""
	}
	return best
}
