// Package canvas draws the editor world with Ebiten. It implements
// render.Surface so the placement services can spawn visuals on it directly.
package canvas

import (
	"bytes"
	"image"
	"image/color"
	_ "image/png"
	"log"
	"math"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/gridpaint/common"
	"github.com/milk9111/gridpaint/grid"
	"github.com/milk9111/gridpaint/render"
	"github.com/milk9111/gridpaint/scene"
)

// ImageSource reads asset bytes by registry-relative path.
type ImageSource interface {
	ReadFile(name string) ([]byte, error)
}

var (
	backgroundColor = color.RGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}
	gridColor       = color.RGBA{R: 0x3a, G: 0x3a, B: 0x44, A: 0xff}
	axisColor       = color.RGBA{R: 0x70, G: 0x70, B: 0x80, A: 0xff}
	hoverColor      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	selectedColor   = color.RGBA{R: 0xff, G: 0xd5, B: 0x4f, A: 0xff}
)

const (
	pulsePeriod = 900 * time.Millisecond
	// glowRate is how much highlight intensity changes per second.
	glowRate = 8.0
)

// Canvas keeps every spawned visual in a draw list ordered by depth and
// spawn order. Destroyed visuals stay in the list, hidden, so Restore can
// bring back the same instance.
type Canvas struct {
	src    ImageSource
	camera *scene.Camera

	visuals []*visual
	sorted  bool

	images  map[string]*ebiten.Image
	missing map[string]bool

	ShowGrid bool
	elapsed  time.Duration
}

func New(src ImageSource, camera *scene.Camera) *Canvas {
	return &Canvas{
		src:      src,
		camera:   camera,
		images:   make(map[string]*ebiten.Image),
		missing:  make(map[string]bool),
		ShowGrid: true,
	}
}

func (c *Canvas) Spawn(sp render.Sprite) render.Visual {
	if sp.Scale == 0 {
		sp.Scale = 1
	}
	v := &visual{
		canvas:  c,
		sprite:  sp,
		seq:     len(c.visuals),
		frame:   sp.Image,
		w:       sp.Width,
		h:       sp.Height,
		visible: true,
		alive:   true,
	}
	c.visuals = append(c.visuals, v)
	c.sorted = false
	return v
}

// SetSource swaps the asset source after a registry reload and drops cached
// images so edited files are picked up.
func (c *Canvas) SetSource(src ImageSource) {
	c.src = src
	clear(c.images)
	clear(c.missing)
}

// Compact drops destroyed visuals that can no longer be restored. Call it
// after the history that could restore them has been cleared.
func (c *Canvas) Compact() {
	c.visuals = slices.DeleteFunc(c.visuals, func(v *visual) bool { return !v.alive })
	for i, v := range c.visuals {
		v.seq = i
	}
}

// Len reports the live visuals.
func (c *Canvas) Len() int {
	n := 0
	for _, v := range c.visuals {
		if v.alive {
			n++
		}
	}
	return n
}

// Update advances the highlight pulse and eases highlight intensity.
func (c *Canvas) Update(dt time.Duration) {
	c.elapsed += dt
	step := glowRate * dt.Seconds()
	for _, v := range c.visuals {
		target := 0.0
		if v.highlight != render.HighlightNone {
			target = 1
		}
		v.glow = common.Approach(v.glow, target, step)
	}
}

func (c *Canvas) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	if c.ShowGrid {
		c.drawGrid(screen)
	}
	c.sort()
	for _, v := range c.visuals {
		if v.alive && v.visible {
			c.drawVisual(screen, v)
		}
	}
}

func (c *Canvas) sort() {
	if c.sorted {
		return
	}
	slices.SortStableFunc(c.visuals, func(a, b *visual) int {
		if a.z != b.z {
			return a.z - b.z
		}
		return a.seq - b.seq
	})
	c.sorted = true
}

func (c *Canvas) drawGrid(screen *ebiten.Image) {
	cam := c.camera
	r := cam.Visible()
	minX, minY := r.Min()
	maxX, maxY := r.Max()
	w, h := float32(cam.Width), float32(cam.Height)

	for gx := math.Floor(minX/grid.Size) * grid.Size; gx <= maxX; gx += grid.Size {
		sx, _ := cam.WorldToScreen(gx, 0)
		clr := gridColor
		if gx == 0 {
			clr = axisColor
		}
		vector.StrokeLine(screen, float32(sx), 0, float32(sx), h, 1, clr, false)
	}
	for gy := math.Floor(minY/grid.Size) * grid.Size; gy <= maxY; gy += grid.Size {
		_, sy := cam.WorldToScreen(0, gy)
		clr := gridColor
		if gy == 0 {
			clr = axisColor
		}
		vector.StrokeLine(screen, 0, float32(sy), w, float32(sy), 1, clr, false)
	}
}

func (c *Canvas) drawVisual(screen *ebiten.Image, v *visual) {
	cam := c.camera
	w := v.w * v.sprite.Scale * cam.Zoom
	h := v.h * v.sprite.Scale * cam.Zoom
	sx, sy := cam.WorldToScreen(v.x, v.y)
	left, top := sx-w/2, sy-h/2
	if v.sprite.AnchorBottom {
		top = sy - h
	}

	if v.sprite.Kind == render.SpriteSelectionBox {
		vector.FillRect(screen, float32(left), float32(top), float32(w), float32(h), v.sprite.Color, false)
		edge := v.sprite.Color
		edge.A = 0xff
		vector.StrokeRect(screen, float32(left), float32(top), float32(w), float32(h), 1, edge, false)
		return
	}

	if img := c.frameImage(v.frame); img != nil {
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
		op.GeoM.Translate(left, top)
		if v.sprite.Kind == render.SpriteHoverTile || v.sprite.Kind == render.SpriteHoverCharacter {
			op.ColorScale.ScaleAlpha(float32(v.sprite.Color.A) / 0xff)
		}
		screen.DrawImage(img, op)
	} else {
		vector.FillRect(screen, float32(left), float32(top), float32(w), float32(h), v.sprite.Color, false)
	}

	if v.sprite.Kind == render.SpriteTile {
		outline := v.sprite.Color
		outline.R, outline.G, outline.B = outline.R/2, outline.G/2, outline.B/2
		vector.StrokeRect(screen, float32(left), float32(top), float32(w), float32(h), 1, outline, false)
	}
	if v.glow > 0 {
		c.drawHighlight(screen, v, left, top, w, h)
	}
}

func (c *Canvas) drawHighlight(screen *ebiten.Image, v *visual, left, top, w, h float64) {
	clr := hoverColor
	alpha := v.glow
	if v.highlight == render.HighlightSelected {
		clr = selectedColor
		phase := float64(c.elapsed%pulsePeriod) / float64(pulsePeriod)
		alpha *= common.Lerp(0.45, 1, (math.Sin(phase*2*math.Pi)+1)/2)
	}
	clr.A = uint8(alpha * 0xff)
	vector.StrokeRect(screen, float32(left-1), float32(top-1), float32(w+2), float32(h+2), 2, clr, true)
}

// frameImage returns the decoded frame, or nil when it cannot be loaded; the
// caller then draws the sprite color instead.
func (c *Canvas) frameImage(path string) *ebiten.Image {
	if path == "" || c.src == nil || c.missing[path] {
		return nil
	}
	if img, ok := c.images[path]; ok {
		return img
	}
	data, err := c.src.ReadFile(path)
	if err != nil {
		c.missing[path] = true
		return nil
	}
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("canvas: decode %s: %v", path, err)
		c.missing[path] = true
		return nil
	}
	img := ebiten.NewImageFromImage(decoded)
	c.images[path] = img
	return img
}
