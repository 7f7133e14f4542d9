// Package render is the narrow view of the drawing surface the editor core
// talks to. It knows nothing about how pixels are produced.
package render

import "image/color"

// Draw order buckets.
const (
	DepthGrid  = 0
	DepthTiles = 10
	DepthHover = 100
	DepthHUD   = 10000
)

type SpriteKind int

const (
	SpriteTile SpriteKind = iota
	SpriteCharacter
	SpriteHoverTile
	SpriteHoverCharacter
	SpriteSelectionBox
)

func (k SpriteKind) String() string {
	switch k {
	case SpriteTile:
		return "tile"
	case SpriteCharacter:
		return "character"
	case SpriteHoverTile:
		return "hover-tile"
	case SpriteHoverCharacter:
		return "hover-character"
	case SpriteSelectionBox:
		return "selection-box"
	default:
		return "unknown"
	}
}

// Sprite describes a visual to create. Image may be empty, in which case the
// surface draws Color.
type Sprite struct {
	Kind   SpriteKind
	Image  string
	Color  color.RGBA
	Width  float64
	Height float64
	// AnchorBottom places the position at the bottom-center instead of the
	// center.
	AnchorBottom bool
	Scale        float64
}

type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightHover
	HighlightSelected
)

// Visual is a placed object on the surface.
type Visual interface {
	SetPosition(x, y float64)
	Position() (x, y float64)
	SetSize(w, h float64)
	SetDepth(depth int)
	Depth() int
	SetVisible(visible bool)
	SetHighlight(h Highlight)
	SetFrame(image string)
	// Destroy removes the visual from the surface. Restore puts the same
	// instance back.
	Destroy()
	Restore()
	Alive() bool
}

// Surface creates visuals.
type Surface interface {
	Spawn(s Sprite) Visual
}
