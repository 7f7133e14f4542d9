package interaction

import (
	"errors"
	"slices"

	"github.com/milk9111/gridpaint/command"
	"github.com/milk9111/gridpaint/common"
)

// ErrReentrant is returned when a command operation starts while another one
// is running or while command listeners are being notified.
var ErrReentrant = errors.New("interaction: command issued from inside a notification")

type listeners[T any] struct {
	next int
	fns  []listener[T]
}

type listener[T any] struct {
	id int
	fn func(T)
}

func (l *listeners[T]) add(fn func(T)) func() {
	id := l.next
	l.next++
	l.fns = append(l.fns, listener[T]{id: id, fn: fn})
	return func() {
		l.fns = slices.DeleteFunc(l.fns, func(x listener[T]) bool { return x.id == id })
	}
}

func (l *listeners[T]) emit(v T) {
	// copy so a listener may unsubscribe while being called
	for _, x := range slices.Clone(l.fns) {
		x.fn(v)
	}
}

// Service is the single owner of tool state and the undo history. It is not
// safe for concurrent use; everything runs on the UI goroutine.
type Service struct {
	state State
	stack *command.Stack

	stateListeners     listeners[State]
	selectionListeners listeners[SelectionEvent]
	commandListeners   listeners[CommandState]

	busy bool
}

// NewService starts in the Create tool. A nil stack gets an unbounded one.
func NewService(stack *command.Stack) *Service {
	if stack == nil {
		stack = command.NewStack(0)
	}
	return &Service{
		state: State{BaseTool: ToolCreate},
		stack: stack,
	}
}

// State returns a copy of the current state.
func (s *Service) State() State {
	st := s.state
	if st.TransientTool != nil {
		t := *st.TransientTool
		st.TransientTool = &t
	}
	return st
}

// Subscribe registers fn and calls it immediately with the current state.
func (s *Service) Subscribe(fn func(State)) func() {
	unsub := s.stateListeners.add(fn)
	fn(s.State())
	return unsub
}

// SubscribeSelection registers fn for future selection events only.
func (s *Service) SubscribeSelection(fn func(SelectionEvent)) func() {
	return s.selectionListeners.add(fn)
}

// SubscribeCommands registers fn and calls it immediately with the current
// history summary.
func (s *Service) SubscribeCommands(fn func(CommandState)) func() {
	unsub := s.commandListeners.add(fn)
	fn(s.CommandState())
	return unsub
}

func (s *Service) emitState() {
	s.stateListeners.emit(s.State())
}

func (s *Service) emitSelection(ev SelectionEvent) {
	s.selectionListeners.emit(ev)
}

// emitCommands runs with busy set, so history listeners cannot mutate the
// history they are being told about.
func (s *Service) emitCommands() {
	s.busy = true
	defer func() { s.busy = false }()
	s.commandListeners.emit(s.CommandState())
}

func (s *Service) SetBaseTool(t Tool, src Source) {
	s.state.BaseTool = t
	s.state.Source = src.or(SourceUI)
	s.emitState()
}

// BeginTransientTool overrides the base tool until EndTransientTool is called
// with the same tool.
func (s *Service) BeginTransientTool(t Tool, src Source) {
	s.state.TransientTool = &t
	s.state.Source = src.or(SourceKeyboard)
	s.emitState()
}

func (s *Service) EndTransientTool(t Tool, src Source) {
	if s.state.TransientTool == nil || *s.state.TransientTool != t {
		return
	}
	s.state.TransientTool = nil
	s.state.Source = src.or(SourceKeyboard)
	s.emitState()
}

// SetSelectedTile picks the tile type to paint and drops any selected
// character. An empty id clears it.
func (s *Service) SetSelectedTile(id string) {
	s.state.SelectedTile = id
	s.state.SelectedCharacter = ""
	s.state.Source = SourceUI
	s.emitState()
}

// SetSelectedCharacter picks the character to place and drops any selected
// tile type. An empty id clears it.
func (s *Service) SetSelectedCharacter(id string) {
	s.state.SelectedCharacter = id
	s.state.SelectedTile = ""
	s.state.Source = SourceUI
	s.emitState()
}

func (s *Service) BeginSelection(r common.Rect, src Source) {
	s.emitSelection(SelectionEvent{Phase: SelectionStart, Rect: &r, Source: src.or(SourceMouse)})
}

func (s *Service) UpdateSelection(r common.Rect, src Source) {
	s.emitSelection(SelectionEvent{Phase: SelectionUpdate, Rect: &r, Source: src.or(SourceMouse)})
}

func (s *Service) EndSelection(r common.Rect, src Source) {
	s.emitSelection(SelectionEvent{Phase: SelectionEnd, Rect: &r, Source: src.or(SourceMouse)})
}

func (s *Service) ClearSelection(src Source) {
	s.emitSelection(SelectionEvent{Phase: SelectionClear, Source: src.or(SourceUI)})
}

func (s *Service) CommandState() CommandState {
	st := CommandState{CanUndo: s.stack.CanUndo(), CanRedo: s.stack.CanRedo()}
	st.UndoLabel, _ = s.stack.UndoLabel()
	st.RedoLabel, _ = s.stack.RedoLabel()
	return st
}

// ExecuteCommand applies cmd and records it. Listeners are notified even when
// the apply fails.
func (s *Service) ExecuteCommand(cmd command.Command) error {
	return s.run(func() error { return s.stack.Execute(cmd) })
}

// RecordCommand records a command whose effects are already applied, such
// as a finished paint stroke.
func (s *Service) RecordCommand(cmd command.Command) error {
	return s.run(func() error {
		s.stack.Record(cmd)
		return nil
	})
}

func (s *Service) Undo() error {
	return s.run(s.stack.Undo)
}

func (s *Service) Redo() error {
	return s.run(s.stack.Redo)
}

// ClearHistory drops every undo and redo entry.
func (s *Service) ClearHistory() error {
	return s.run(func() error {
		s.stack.Clear()
		return nil
	})
}

func (s *Service) run(op func() error) error {
	if s.busy {
		return ErrReentrant
	}
	s.busy = true
	err := func() error {
		defer func() { s.busy = false }()
		return op()
	}()
	s.emitCommands()
	return err
}
