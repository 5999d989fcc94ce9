package generate

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/simonhull/mynah/internal/classify"
	"github.com/simonhull/mynah/internal/javalang"
)

// FilterOptions selects which class members become available to
// templates. The zero value admits every field and no getters.
type FilterOptions struct {
	ExcludeModifiers []string // static, transient, volatile, final, ...
	ExcludeConstants bool
	ExcludeNames     string // regex over field names and getter method names
	ExcludeTypes     string // regex over field types and getter return types
	IncludeGetters   bool
	SortMembers      bool
}

// FilterMembers builds the ordered member sequence a template sees:
// fields in declaration order, then qualifying getters. Getters whose
// implied field name is already taken by an available field are
// dropped, and fields with a matching zero-argument getter carry its
// call expression so templates can render through accessors. The
// filter runs once per generation, before template evaluation.
func FilterMembers(cls *classify.Classifier, class *classify.ClassFacts, cl *javalang.Class, opts FilterOptions) ([]*classify.MemberFacts, error) {
	nameRe, err := compilePattern("exclude-names", opts.ExcludeNames)
	if err != nil {
		return nil, err
	}
	typeRe, err := compilePattern("exclude-types", opts.ExcludeTypes)
	if err != nil {
		return nil, err
	}

	getterCalls := make(map[string]string)
	for _, m := range cl.Methods {
		if len(m.Params) == 0 && cls.IsGetter(m) {
			getterCalls[classify.ImpliedFieldName(m.Name)] = m.Name + "()"
		}
	}

	var out []*classify.MemberFacts
	taken := make(map[string]bool)
	for _, f := range cl.Fields {
		if excludedByModifier(f.Modifiers, opts.ExcludeModifiers) {
			continue
		}
		if opts.ExcludeConstants && classify.IsConstant(f) {
			continue
		}
		if nameRe != nil && nameRe.MatchString(f.Name) {
			continue
		}
		facts := cls.Field(f, class)
		if typeRe != nil && typeRe.MatchString(patternTarget(facts)) {
			continue
		}
		facts.GetterCall = getterCalls[f.Name]
		taken[f.Name] = true
		out = append(out, facts)
	}

	if opts.IncludeGetters {
		for _, m := range cl.Methods {
			if len(m.Params) != 0 || !cls.IsGetter(m) {
				continue
			}
			if excludedByModifier(m.Modifiers, opts.ExcludeModifiers) {
				continue
			}
			if nameRe != nil && nameRe.MatchString(m.Name) {
				continue
			}
			facts := cls.Getter(m, class)
			if taken[facts.Name] {
				continue
			}
			if typeRe != nil && typeRe.MatchString(patternTarget(facts)) {
				continue
			}
			taken[facts.Name] = true
			out = append(out, facts)
		}
	}

	if opts.SortMembers {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out, nil
}

func compilePattern(option, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%s pattern: %w", option, err)
	}
	return re, nil
}

// patternTarget is the text a type regex runs against: the resolved
// qualified name when known, the written form otherwise.
func patternTarget(f *classify.MemberFacts) string {
	if f.QualifiedName != "" {
		return f.QualifiedName
	}
	return f.Text
}

func excludedByModifier(mods javalang.Modifiers, names []string) bool {
	for _, name := range names {
		if hasModifier(mods, name) {
			return true
		}
	}
	return false
}

func hasModifier(mods javalang.Modifiers, name string) bool {
	switch name {
	case "public":
		return mods.Public
	case "protected":
		return mods.Protected
	case "private":
		return mods.Private
	case "static":
		return mods.Static
	case "final":
		return mods.Final
	case "abstract":
		return mods.Abstract
	case "transient":
		return mods.Transient
	case "volatile":
		return mods.Volatile
	case "synchronized":
		return mods.Synchronized
	case "native":
		return mods.Native
	}
	return false
}
