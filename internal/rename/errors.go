package rename

import (
	"errors"
	"fmt"
)

// ErrOutsideRoot is wrapped by a RenameError when a new path resolves
// outside the session root.
var ErrOutsideRoot = errors.New("path resolves outside the session root")

// CountMismatchError reports that the manifest lists a different number of
// entries of one kind than the snapshot. No entry of that kind is renamed.
type CountMismatchError struct {
	Kind Kind
	Old  int
	New  int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("the number of %ss was changed (%d -> %d); aborting %s renames to prevent data loss",
		e.Kind, e.Old, e.New, e.Kind)
}

// RenameError reports a single rename that could not be performed.
type RenameError struct {
	Kind Kind
	From string // relative to the session root
	To   string // relative to the session root
	Err  error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("failed to rename %s %s to %s: %v", e.Kind, e.From, e.To, e.Err)
}

func (e *RenameError) Unwrap() error { return e.Err }
