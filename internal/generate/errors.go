package generate

import (
	"errors"
	"fmt"
)

// ErrConflictCancelled is the no-op outcome when the conflict policy is
// Cancel and the target method already exists. Nothing was modified.
var ErrConflictCancelled = errors.New("generation cancelled: method already exists")

// ErrNothingToGenerate reports a class with no members left after
// filtering. Nothing was modified.
var ErrNothingToGenerate = errors.New("nothing to generate: no members available")

// InsertionError reports a staged edit the tree rejected. The source
// file is left untouched.
type InsertionError struct {
	Class string
	Err   error
}

func (e *InsertionError) Error() string {
	return fmt.Sprintf("inserting into %s: %v", e.Class, e.Err)
}

func (e *InsertionError) Unwrap() error { return e.Err }
