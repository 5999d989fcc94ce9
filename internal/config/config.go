// Package config loads mynah settings from .mynah.yml, the
// environment, and built-in defaults. Flags override at the command
// layer; this package only answers what the project and user asked for.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/mynah/internal/generate"
	"github.com/simonhull/mynah/internal/inspect"
)

// Filter mirrors the generator's member filter in config form.
type Filter struct {
	ExcludeModifiers []string
	ExcludeConstants bool
	ExcludeNames     string
	ExcludeTypes     string
	IncludeGetters   bool
	SortMembers      bool
}

// Check mirrors the inspection excludes in config form.
type Check struct {
	ExcludeExceptions bool
	ExcludeDeprecated bool
	ExcludeEnums      bool
	ExcludeAbstract   bool
	ExcludeClasses    string
}

// Config is everything .mynah.yml can carry.
type Config struct {
	Template     string
	OnConflict   string
	Placement    string
	TemplatesDir string
	AutoImports  []string
	FormatCmd    string
	Filter       Filter
	Check        Check

	Source string // config file the values came from, "" when defaults only
}

// Load reads configuration for a run rooted at dir. Search order:
// .mynah.yml in dir, then the home directory; MYNAH_* environment
// variables override file values (MYNAH_FILTER_INCLUDE_GETTERS=true).
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".mynah")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	v.SetEnvPrefix("MYNAH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("template", "default")
	v.SetDefault("on_conflict", "replace")
	v.SetDefault("placement", "last")
	v.SetDefault("check.exclude_exceptions", true)
	v.SetDefault("check.exclude_deprecated", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return &Config{
		Template:     v.GetString("template"),
		OnConflict:   v.GetString("on_conflict"),
		Placement:    v.GetString("placement"),
		TemplatesDir: v.GetString("templates_dir"),
		AutoImports:  v.GetStringSlice("auto_imports"),
		FormatCmd:    v.GetString("format_cmd"),
		Filter: Filter{
			ExcludeModifiers: v.GetStringSlice("filter.exclude_modifiers"),
			ExcludeConstants: v.GetBool("filter.exclude_constants"),
			ExcludeNames:     v.GetString("filter.exclude_names"),
			ExcludeTypes:     v.GetString("filter.exclude_types"),
			IncludeGetters:   v.GetBool("filter.include_getters"),
			SortMembers:      v.GetBool("filter.sort_members"),
		},
		Check: Check{
			ExcludeExceptions: v.GetBool("check.exclude_exceptions"),
			ExcludeDeprecated: v.GetBool("check.exclude_deprecated"),
			ExcludeEnums:      v.GetBool("check.exclude_enums"),
			ExcludeAbstract:   v.GetBool("check.exclude_abstract"),
			ExcludeClasses:    v.GetString("check.exclude_classes"),
		},
		Source: v.ConfigFileUsed(),
	}, nil
}

// Validate reports the first unusable value. The config mirrors the
// generate flags, so on_conflict may also be "ask", which resolves to
// a policy interactively rather than parsing as one.
func (c *Config) Validate() error {
	if c.OnConflict != "ask" {
		if _, err := generate.ParseConflictPolicy(c.OnConflict); err != nil {
			return err
		}
	}
	if _, err := generate.ParseInsertionPolicy(c.Placement); err != nil {
		return err
	}
	return nil
}

// FilterOptions converts to the generator's member filter.
func (c *Config) FilterOptions() generate.FilterOptions {
	return generate.FilterOptions{
		ExcludeModifiers: c.Filter.ExcludeModifiers,
		ExcludeConstants: c.Filter.ExcludeConstants,
		ExcludeNames:     c.Filter.ExcludeNames,
		ExcludeTypes:     c.Filter.ExcludeTypes,
		IncludeGetters:   c.Filter.IncludeGetters,
		SortMembers:      c.Filter.SortMembers,
	}
}

// CheckOptions converts to the inspection's options.
func (c *Config) CheckOptions() inspect.Options {
	return inspect.Options{
		ExcludeExceptions: c.Check.ExcludeExceptions,
		ExcludeDeprecated: c.Check.ExcludeDeprecated,
		ExcludeEnums:      c.Check.ExcludeEnums,
		ExcludeAbstract:   c.Check.ExcludeAbstract,
		ExcludeClassNames: c.Check.ExcludeClasses,
		Filter:            c.FilterOptions(),
	}
}

// HasProjectConfig checks if dir carries a parseable .mynah.yml
func HasProjectConfig(dir string) bool {
	for _, name := range []string{".mynah.yml", ".mynah.yaml"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		var doc map[string]any
		if yaml.Unmarshal(data, &doc) == nil {
			return true
		}
	}
	return false
}
