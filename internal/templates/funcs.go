package templates

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/simonhull/mynah/internal/classify"
)

// defaultFuncMap returns the helpers available to every template.
func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"firstUpper": FirstUpper,
		"firstLower": FirstLower,
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"trim":       strings.TrimSpace,
		"join":       strings.Join,
		"contains":   strings.Contains,
		"hasPrefix":  strings.HasPrefix,
		"hasSuffix":  strings.HasSuffix,
		"replace":    strings.ReplaceAll,
		"quote":      Quote,

		"matchesName": MatchesName,
		"matchesType": MatchesType,
	}
}

// FirstUpper uppercases the first character.
func FirstUpper(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// FirstLower lowercases the first character.
func FirstLower(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// Quote wraps a string in double quotes.
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// MatchesName reports whether the member's name matches the pattern.
func MatchesName(pattern string, m *classify.MemberFacts) (bool, error) {
	return regexp.MatchString(pattern, m.Name)
}

// MatchesType reports whether the member's type matches the pattern,
// against the qualified name when resolved, the written form otherwise.
func MatchesType(pattern string, m *classify.MemberFacts) (bool, error) {
	name := m.QualifiedName
	if name == "" {
		name = m.Text
	}
	return regexp.MatchString(pattern, name)
}
