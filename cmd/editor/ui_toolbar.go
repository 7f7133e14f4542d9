package main

import (
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/gridpaint/interaction"
)

// action is a toolbar button that is not a tool.
type action uint8

const (
	actionUndo action = iota
	actionRedo
	actionSave
	actionOpen
	actionNew
	actionResetView
)

// ToolBar mirrors the interaction state: the radio group follows the
// effective tool and the history buttons follow the command stack.
type ToolBar struct {
	container *widget.Container
	group     *widget.RadioGroup
	buttons   []*widget.Button
	undo      *widget.Button
	redo      *widget.Button

	// suppress breaks the loop SetActive -> ChangedHandler -> SetBaseTool.
	suppress bool
}

func buildToolBar(theme *widget.Theme, fontFace *text.Face, svc *interaction.Service, onAction func(action)) *ToolBar {
	tb := &ToolBar{}
	tb.container = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(220, 48),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 4, Bottom: 4, Left: 4, Right: 4}),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(toolbarColor)),
	)

	for _, name := range []string{"Create", "Move", "Pan", "Zoom"} {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(name, fontFace, buttonTextIdle),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(56, 40),
			),
		)
		tb.buttons = append(tb.buttons, btn)
		tb.container.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(tb.buttons))
	for _, b := range tb.buttons {
		elements = append(elements, b)
	}
	tb.group = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if tb.suppress {
				return
			}
			for idx, b := range tb.buttons {
				if args.Active == b {
					svc.SetBaseTool(interaction.Tool(idx), interaction.SourceUI)
					return
				}
			}
		}),
	)

	button := func(label string, act action) *widget.Button {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, fontFace, buttonTextIdle),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(56, 40),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onAction(act)
			}),
		)
		tb.container.AddChild(btn)
		return btn
	}
	tb.undo = button("Undo", actionUndo)
	tb.redo = button("Redo", actionRedo)
	button("Save", actionSave)
	button("Open", actionOpen)
	button("New", actionNew)
	button("Reset View", actionResetView)
	return tb
}

// SetState activates the button of the effective tool, so holding Space
// shows Pan until it is released.
func (tb *ToolBar) SetState(st interaction.State) {
	idx := int(st.EffectiveTool())
	if idx < 0 || idx >= len(tb.buttons) {
		return
	}
	tb.suppress = true
	tb.group.SetActive(tb.buttons[idx])
	tb.suppress = false
}

func (tb *ToolBar) SetCommands(cs interaction.CommandState) {
	setHistoryButton(tb.undo, "Undo", cs.UndoLabel, cs.CanUndo)
	setHistoryButton(tb.redo, "Redo", cs.RedoLabel, cs.CanRedo)
}

func setHistoryButton(btn *widget.Button, verb, label string, enabled bool) {
	if text := btn.Text(); text != nil {
		if enabled && label != "" {
			text.Label = verb + " " + label
		} else {
			text.Label = verb
		}
	}
	btn.GetWidget().Disabled = !enabled
}
