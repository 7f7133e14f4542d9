package command

import "errors"

// Stack keeps the undo and redo history. A new command clears the redo
// history; branching is not supported.
type Stack struct {
	undo  []Command
	redo  []Command
	limit int
}

// NewStack returns a stack keeping at most limit undo entries. A limit of 0
// keeps everything.
func NewStack(limit int) *Stack {
	if limit < 0 {
		limit = 0
	}
	return &Stack{limit: limit}
}

// Execute applies cmd and records it. A command that fails to apply is not
// recorded and the redo history is left alone.
func (s *Stack) Execute(cmd Command) error {
	if err := cmd.Apply(); err != nil {
		return err
	}
	s.Record(cmd)
	return nil
}

// Record pushes a command whose effects are already in place.
func (s *Stack) Record(cmd Command) {
	s.undo = append(s.undo, cmd)
	if s.limit > 0 && len(s.undo) > s.limit {
		drop := len(s.undo) - s.limit
		clear(s.undo[:drop])
		s.undo = s.undo[drop:]
	}
	clear(s.redo)
	s.redo = s.redo[:0]
}

// Undo reverts the newest command. It is a no-op on an empty history.
//
// A command that reports ErrConflict can never revert, so it is dropped and
// the entries below it stay reachable. Any other error leaves it in place.
func (s *Stack) Undo() error {
	if len(s.undo) == 0 {
		return nil
	}
	cmd := s.undo[len(s.undo)-1]
	if err := cmd.Revert(); err != nil {
		if errors.Is(err, ErrConflict) {
			s.undo = pop(s.undo)
		}
		return err
	}
	s.undo = pop(s.undo)
	s.redo = append(s.redo, cmd)
	return nil
}

// Redo re-applies the most recently undone command. Conflicts drop the
// command the same way Undo does.
func (s *Stack) Redo() error {
	if len(s.redo) == 0 {
		return nil
	}
	cmd := s.redo[len(s.redo)-1]
	if err := cmd.Apply(); err != nil {
		if errors.Is(err, ErrConflict) {
			s.redo = pop(s.redo)
		}
		return err
	}
	s.redo = pop(s.redo)
	s.undo = append(s.undo, cmd)
	return nil
}

func pop(cmds []Command) []Command {
	cmds[len(cmds)-1] = nil
	return cmds[:len(cmds)-1]
}

func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// UndoLabel returns the label of the command Undo would revert.
func (s *Stack) UndoLabel() (string, bool) {
	if len(s.undo) == 0 {
		return "", false
	}
	return s.undo[len(s.undo)-1].Label(), true
}

// RedoLabel returns the label of the command Redo would apply.
func (s *Stack) RedoLabel() (string, bool) {
	if len(s.redo) == 0 {
		return "", false
	}
	return s.redo[len(s.redo)-1].Label(), true
}

func (s *Stack) UndoDepth() int { return len(s.undo) }
func (s *Stack) RedoDepth() int { return len(s.redo) }

func (s *Stack) Clear() {
	clear(s.undo)
	clear(s.redo)
	s.undo = s.undo[:0]
	s.redo = s.redo[:0]
}
