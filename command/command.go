// Package command implements reversible edits and the undo/redo history.
package command

import (
	"errors"
	"fmt"
)

// ErrConflict is returned when a command finds the world in a state it did
// not leave it in, e.g. a revert whose target cell was taken by someone else.
var ErrConflict = errors.New("command: precondition violated")

// Command is one reversible edit. Apply followed by Revert restores the
// state observed before Apply.
type Command interface {
	Apply() error
	Revert() error
	Label() string
}

// Conflict wraps ErrConflict with a command label and detail.
func Conflict(label, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrConflict, label, fmt.Sprintf(format, args...))
}

// Func adapts a pair of closures to Command.
type Func struct {
	Name     string
	ApplyFn  func() error
	RevertFn func() error
}

func (f Func) Label() string { return f.Name }

func (f Func) Apply() error {
	if f.ApplyFn == nil {
		return nil
	}
	return f.ApplyFn()
}

func (f Func) Revert() error {
	if f.RevertFn == nil {
		return nil
	}
	return f.RevertFn()
}
