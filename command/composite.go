package command

import (
	"errors"
	"fmt"
)

// Composite runs its children as one undo unit. Apply goes front to back and
// Revert goes back to front, since later children can depend on state left
// by earlier ones.
type Composite struct {
	label    string
	children []Command
}

func NewComposite(label string) *Composite {
	return &Composite{label: label}
}

func (c *Composite) Label() string { return c.label }

// Add appends a child. The child is not applied.
func (c *Composite) Add(cmd Command) {
	if cmd == nil {
		return
	}
	c.children = append(c.children, cmd)
}

func (c *Composite) IsEmpty() bool { return len(c.children) == 0 }
func (c *Composite) Len() int      { return len(c.children) }

// Children returns the children in apply order.
func (c *Composite) Children() []Command {
	out := make([]Command, len(c.children))
	copy(out, c.children)
	return out
}

// Apply runs the children in order. If one fails, the ones already applied
// are reverted so the composite is all or nothing.
func (c *Composite) Apply() error {
	for i, cmd := range c.children {
		if err := cmd.Apply(); err != nil {
			rerr := c.revertRange(i - 1)
			return c.wrap("apply", err, rerr)
		}
	}
	return nil
}

// Revert runs the children in reverse order, re-applying the already
// reverted tail on failure.
func (c *Composite) Revert() error {
	for i := len(c.children) - 1; i >= 0; i-- {
		if err := c.children[i].Revert(); err != nil {
			var rerr error
			for j := i + 1; j < len(c.children); j++ {
				if e := c.children[j].Apply(); e != nil {
					rerr = errors.Join(rerr, e)
				}
			}
			return c.wrap("revert", err, rerr)
		}
	}
	return nil
}

func (c *Composite) revertRange(last int) error {
	var errs error
	for j := last; j >= 0; j-- {
		if err := c.children[j].Revert(); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

func (c *Composite) wrap(op string, err, rollback error) error {
	if rollback != nil {
		return fmt.Errorf("%s %q: %w (rollback: %v)", op, c.label, err, rollback)
	}
	return fmt.Errorf("%s %q: %w", op, c.label, err)
}
