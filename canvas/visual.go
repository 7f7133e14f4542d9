package canvas

import "github.com/milk9111/gridpaint/render"

type visual struct {
	canvas *Canvas
	sprite render.Sprite
	seq    int

	x, y      float64
	w, h      float64
	z         int
	visible   bool
	highlight render.Highlight
	glow      float64
	frame     string
	alive     bool
}

func (v *visual) SetPosition(x, y float64)     { v.x, v.y = x, y }
func (v *visual) Position() (float64, float64) { return v.x, v.y }
func (v *visual) SetSize(w, h float64)         { v.w, v.h = w, h }
func (v *visual) Depth() int                   { return v.z }
func (v *visual) SetVisible(b bool)            { v.visible = b }
func (v *visual) SetFrame(image string)        { v.frame = image }
func (v *visual) Alive() bool                  { return v.alive }
func (v *visual) Destroy()                     { v.alive = false }
func (v *visual) Restore()                     { v.alive = true }

func (v *visual) SetDepth(d int) {
	if v.z == d {
		return
	}
	v.z = d
	v.canvas.sorted = false
}

func (v *visual) SetHighlight(h render.Highlight) { v.highlight = h }
