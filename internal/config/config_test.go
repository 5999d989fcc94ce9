package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps real ~/.mynah.yml files out of the search path.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return t.TempDir()
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".mynah.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Template)
	assert.Equal(t, "replace", cfg.OnConflict)
	assert.Equal(t, "last", cfg.Placement)
	assert.Empty(t, cfg.AutoImports)
	assert.Empty(t, cfg.FormatCmd)
	assert.False(t, cfg.Filter.IncludeGetters)
	assert.True(t, cfg.Check.ExcludeExceptions)
	assert.True(t, cfg.Check.ExcludeDeprecated)
	assert.False(t, cfg.Check.ExcludeEnums)
	assert.False(t, cfg.Check.ExcludeAbstract)
	assert.Empty(t, cfg.Source)
}

func TestLoadProjectFile(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `
template: getters
on_conflict: duplicate
placement: after-equals-hashcode
auto_imports:
  - java.util.Objects
format_cmd: google-java-format --replace {}
filter:
  exclude_modifiers: [static, transient]
  exclude_constants: true
  exclude_names: "^(id|serialVersionUID)$"
  include_getters: true
  sort_members: true
check:
  exclude_enums: true
  exclude_classes: "Dto$"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "getters", cfg.Template)
	assert.Equal(t, "duplicate", cfg.OnConflict)
	assert.Equal(t, "after-equals-hashcode", cfg.Placement)
	assert.Equal(t, []string{"java.util.Objects"}, cfg.AutoImports)
	assert.Equal(t, "google-java-format --replace {}", cfg.FormatCmd)
	assert.Equal(t, []string{"static", "transient"}, cfg.Filter.ExcludeModifiers)
	assert.True(t, cfg.Filter.ExcludeConstants)
	assert.Equal(t, "^(id|serialVersionUID)$", cfg.Filter.ExcludeNames)
	assert.True(t, cfg.Filter.IncludeGetters)
	assert.True(t, cfg.Filter.SortMembers)
	assert.True(t, cfg.Check.ExcludeEnums)
	assert.Equal(t, "Dto$", cfg.Check.ExcludeClasses)
	assert.Equal(t, path, cfg.Source)

	// File values merge over defaults, not replace them.
	assert.True(t, cfg.Check.ExcludeExceptions)
}

func TestLoadHomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "template: json\n")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Template)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "template: getters\n")
	t.Setenv("MYNAH_TEMPLATE", "json")
	t.Setenv("MYNAH_FILTER_INCLUDE_GETTERS", "true")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Template)
	assert.True(t, cfg.Filter.IncludeGetters)
}

func TestLoadBadYaml(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "template: [unclosed\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestValidate(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	cfg.OnConflict = "ask"
	require.NoError(t, cfg.Validate())

	cfg.OnConflict = "explode"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflict policy")

	cfg.OnConflict = "cancel"
	cfg.Placement = "wherever"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insertion policy")
}

func TestOptionConversions(t *testing.T) {
	cfg := &Config{
		Filter: Filter{
			ExcludeModifiers: []string{"static"},
			ExcludeNames:     "^cached",
			IncludeGetters:   true,
		},
		Check: Check{
			ExcludeExceptions: true,
			ExcludeAbstract:   true,
			ExcludeClasses:    "Test$",
		},
	}

	fopts := cfg.FilterOptions()
	assert.Equal(t, []string{"static"}, fopts.ExcludeModifiers)
	assert.Equal(t, "^cached", fopts.ExcludeNames)
	assert.True(t, fopts.IncludeGetters)

	copts := cfg.CheckOptions()
	assert.True(t, copts.ExcludeExceptions)
	assert.True(t, copts.ExcludeAbstract)
	assert.False(t, copts.ExcludeEnums)
	assert.Equal(t, "Test$", copts.ExcludeClassNames)
	assert.True(t, copts.Filter.IncludeGetters)
}

func TestHasProjectConfig(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, HasProjectConfig(dir))

	writeConfig(t, dir, "template: default\n")
	assert.True(t, HasProjectConfig(dir))

	broken := t.TempDir()
	writeConfig(t, broken, ": not yaml [\n")
	assert.False(t, HasProjectConfig(broken))

	alt := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(alt, ".mynah.yaml"), []byte("template: x\n"), 0644))
	assert.True(t, HasProjectConfig(alt))
}
