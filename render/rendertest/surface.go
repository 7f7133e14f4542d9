// Package rendertest provides an in-memory render.Surface for tests and
// headless tools.
package rendertest

import "github.com/milk9111/gridpaint/render"

// Surface records every visual it spawns.
type Surface struct {
	Visuals []*Visual
}

func NewSurface() *Surface { return &Surface{} }

func (s *Surface) Spawn(sp render.Sprite) render.Visual {
	v := &Visual{
		Sprite:  sp,
		Frame:   sp.Image,
		Visible: true,
		alive:   true,
	}
	if sp.Width > 0 || sp.Height > 0 {
		v.W, v.H = sp.Width, sp.Height
	}
	s.Visuals = append(s.Visuals, v)
	return v
}

// Live returns visuals of the given kind that are not destroyed.
func (s *Surface) Live(kind render.SpriteKind) []*Visual {
	var out []*Visual
	for _, v := range s.Visuals {
		if v.Sprite.Kind == kind && v.alive {
			out = append(out, v)
		}
	}
	return out
}

// Visual is a plain record of the last state set on it.
type Visual struct {
	Sprite    render.Sprite
	X, Y      float64
	W, H      float64
	Z         int
	Visible   bool
	Highlight render.Highlight
	Frame     string
	Frames    []string
	Destroys  int
	Restores  int
	alive     bool
}

func (v *Visual) SetPosition(x, y float64)        { v.X, v.Y = x, y }
func (v *Visual) Position() (float64, float64)    { return v.X, v.Y }
func (v *Visual) SetSize(w, h float64)            { v.W, v.H = w, h }
func (v *Visual) SetDepth(d int)                  { v.Z = d }
func (v *Visual) Depth() int                      { return v.Z }
func (v *Visual) SetVisible(b bool)               { v.Visible = b }
func (v *Visual) SetHighlight(h render.Highlight) { v.Highlight = h }
func (v *Visual) Alive() bool                     { return v.alive }

func (v *Visual) SetFrame(image string) {
	v.Frame = image
	v.Frames = append(v.Frames, image)
}

func (v *Visual) Destroy() {
	v.alive = false
	v.Destroys++
}

func (v *Visual) Restore() {
	v.alive = true
	v.Restores++
}
