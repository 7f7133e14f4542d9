package main

import (
	"bytes"
	"image"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/gridpaint/interaction"
	"github.com/milk9111/gridpaint/registry"
)

// editorUI is the chrome drawn over the canvas: toolbar on top, palette on
// the right and a status footer along the bottom.
type editorUI struct {
	ui      *ebitenui.UI
	face    text.Face
	toolbar *ToolBar
	palette *Palette
	footer  *widget.Text
	panels  []*widget.Container
}

func buildEditorUI(svc *interaction.Service, set *registry.Set, onAction func(action)) *editorUI {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)

	toolbar := buildToolBar(ui.PrimaryTheme, &fontFace, svc, onAction)
	palette := buildPalette(&fontFace, svc, set)

	footerBar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, 24),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{25, 25, 25, 230})),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 4, Left: 8, Right: 8}),
			),
		),
	)
	footer := widget.NewText(
		widget.TextOpts.Text("", &fontFace, color.White),
	)
	footerBar.AddChild(footer)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	toolbar.container.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	palette.container.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
	}
	footerBar.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionEnd,
		StretchHorizontal:  true,
	}
	root.AddChild(toolbar.container)
	root.AddChild(palette.container)
	root.AddChild(footerBar)
	ui.Container = root

	return &editorUI{
		ui:      ui,
		face:    fontFace,
		toolbar: toolbar,
		palette: palette,
		footer:  footer,
		panels:  []*widget.Container{toolbar.container, palette.container, footerBar},
	}
}

func (e *editorUI) Update()                   { e.ui.Update() }
func (e *editorUI) Draw(screen *ebiten.Image) { e.ui.Draw(screen) }
func (e *editorUI) SetStatus(line string)     { e.footer.Label = line }

// typing reports whether a text widget has focus, in which case hotkeys are
// left alone.
func (e *editorUI) typing() bool {
	if fw := e.ui.GetFocusedWidget(); fw != nil {
		if _, ok := fw.(*widget.TextInput); ok {
			return true
		}
	}
	return false
}

// covers reports whether screen point (x, y) is over a panel rather than
// the canvas.
func (e *editorUI) covers(x, y int) bool {
	pt := image.Pt(x, y)
	for _, p := range e.panels {
		if pt.In(p.GetWidget().Rect) {
			return true
		}
	}
	return false
}
