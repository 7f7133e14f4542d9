// Package interaction holds the editor's tool state, the box-selection event
// stream and the undo history, and fans changes out to subscribers.
package interaction

import (
	"fmt"
	"strings"

	"github.com/milk9111/gridpaint/common"
)

type Tool uint8

const (
	ToolCreate Tool = iota
	ToolMove
	ToolPan
	ToolZoom
)

var toolNames = [...]string{"create", "move", "pan", "zoom"}

func (t Tool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("Tool(%d)", t)
}

// ParseTool accepts a tool name in any case.
func ParseTool(s string) (Tool, error) {
	for i, name := range toolNames {
		if strings.EqualFold(s, name) {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("interaction: unknown tool %q", s)
}

// Source says where a state change came from. The zero value lets each
// operation pick its usual source.
type Source uint8

const (
	SourceDefault Source = iota
	SourceUI
	SourceKeyboard
	SourceMouse
)

func (s Source) String() string {
	switch s {
	case SourceUI:
		return "ui"
	case SourceKeyboard:
		return "keyboard"
	case SourceMouse:
		return "mouse"
	default:
		return ""
	}
}

func (s Source) or(def Source) Source {
	if s == SourceDefault {
		return def
	}
	return s
}

type State struct {
	BaseTool      Tool
	TransientTool *Tool
	// At most one of SelectedTile and SelectedCharacter is non-empty.
	SelectedTile      string
	SelectedCharacter string
	Source            Source
}

// EffectiveTool is the transient tool while one is held, else the base tool.
func (s State) EffectiveTool() Tool {
	if s.TransientTool != nil {
		return *s.TransientTool
	}
	return s.BaseTool
}

func (s State) IsPlacingTile() bool {
	return s.EffectiveTool() == ToolCreate && s.SelectedTile != ""
}

func (s State) IsPlacingCharacter() bool {
	return s.EffectiveTool() == ToolCreate && s.SelectedCharacter != ""
}

type SelectionPhase uint8

const (
	SelectionStart SelectionPhase = iota
	SelectionUpdate
	SelectionEnd
	SelectionClear
)

func (p SelectionPhase) String() string {
	switch p {
	case SelectionStart:
		return "start"
	case SelectionUpdate:
		return "update"
	case SelectionEnd:
		return "end"
	case SelectionClear:
		return "clear"
	default:
		return fmt.Sprintf("SelectionPhase(%d)", p)
	}
}

// SelectionEvent is one step of a box selection. Rect is in world space and
// nil for SelectionClear.
type SelectionEvent struct {
	Phase  SelectionPhase
	Rect   *common.Rect
	Source Source
}

// CommandState summarizes the undo history for toolbar buttons.
type CommandState struct {
	CanUndo   bool
	CanRedo   bool
	UndoLabel string
	RedoLabel string
}
