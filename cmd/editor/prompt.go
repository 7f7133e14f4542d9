package main

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Prompt is a one-line modal text input. While open it owns the keyboard;
// Enter submits and Escape cancels.
type Prompt struct {
	open     bool
	label    string
	input    string
	onSubmit func(string)
}

func NewPrompt() *Prompt { return &Prompt{} }

func (p *Prompt) IsOpen() bool { return p.open }

func (p *Prompt) Open(label, initial string, onSubmit func(string)) {
	p.label = label
	p.input = initial
	p.onSubmit = onSubmit
	p.open = true
}

func (p *Prompt) Close() {
	p.open = false
	p.label = ""
	p.input = ""
	p.onSubmit = nil
}

// Update consumes input while the prompt is open and reports whether it
// still is.
func (p *Prompt) Update() bool {
	if !p.open {
		return false
	}
	p.input = string(ebiten.AppendInputChars([]rune(p.input)))
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && p.input != "" {
		r := []rune(p.input)
		p.input = string(r[:len(r)-1])
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		// Close first so the callback may chain another prompt.
		cur, fn := strings.TrimSpace(p.input), p.onSubmit
		p.Close()
		if fn != nil {
			fn(cur)
		}
		return p.open
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		p.Close()
		return false
	}
	return true
}

func (p *Prompt) Draw(screen *ebiten.Image, face text.Face) {
	if !p.open {
		return
	}
	sw := float32(screen.Bounds().Dx())
	sh := float32(screen.Bounds().Dy())
	vector.FillRect(screen, 0, sh/2-24, sw, 48, color.RGBA{0, 0, 0, 0xaa}, false)
	vector.StrokeLine(screen, 0, sh/2+24, sw, sh/2+24, 1, color.RGBA{255, 220, 120, 255}, false)

	label := p.label
	if label == "" {
		label = "Input:"
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(16, float64(sh/2-9))
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, label+" "+p.input+"_", face, op)
}
