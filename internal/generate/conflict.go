package generate

import "fmt"

// ConflictPolicy decides what happens when a method with the target
// name already exists on the class. Overloads resolve to the
// bottom-most declaration, matching the last-match-wins member lookup.
type ConflictPolicy int

const (
	Replace ConflictPolicy = iota
	Duplicate
	Cancel
)

func (p ConflictPolicy) String() string {
	switch p {
	case Duplicate:
		return "duplicate"
	case Cancel:
		return "cancel"
	}
	return "replace"
}

// ParseConflictPolicy maps a flag value to its policy.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch s {
	case "replace":
		return Replace, nil
	case "duplicate":
		return Duplicate, nil
	case "cancel":
		return Cancel, nil
	}
	return Replace, fmt.Errorf("unknown conflict policy %q (want replace, duplicate, or cancel)", s)
}
