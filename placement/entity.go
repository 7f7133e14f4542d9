// Package placement owns placed tiles and characters: their visuals, their
// ephemeral editor state, and the commands that put them on the grid.
package placement

import (
	"fmt"

	"github.com/milk9111/gridpaint/common"
	"github.com/milk9111/gridpaint/grid"
	"github.com/milk9111/gridpaint/levels"
	"github.com/milk9111/gridpaint/occupancy"
	"github.com/milk9111/gridpaint/registry"
	"github.com/milk9111/gridpaint/render"
)

type Kind uint8

const (
	KindTile Kind = iota + 1
	KindCharacter
)

func (k Kind) String() string {
	switch k {
	case KindTile:
		return "tile"
	case KindCharacter:
		return "character"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// TilePayload is the tile variant of an Entity.
type TilePayload struct {
	Data levels.Tile
	Def  *registry.TileDef

	anim         *animTimer
	cascadeIndex int
}

// CharacterPayload is the character variant of an Entity.
type CharacterPayload struct {
	CharacterID string
	Def         *registry.CharacterDef
	Facing      string
	Depth       int
}

// Entity is one placed tile or character. Exactly one of Tile and Character
// is set, matching Kind.
type Entity struct {
	Kind   Kind
	ID     string
	Cell   grid.Cell
	Layer  occupancy.LayerID
	Visual render.Visual

	Tile      *TilePayload
	Character *CharacterPayload

	selected bool
	hovered  bool
}

// TypeID is the tile type or character id.
func (e *Entity) TypeID() string {
	switch e.Kind {
	case KindTile:
		return e.Tile.Data.Type
	case KindCharacter:
		return e.Character.CharacterID
	default:
		panic(fmt.Sprintf("placement: unhandled kind %v", e.Kind))
	}
}

// Anchor is where the visual sits for the current cell: the cell center for
// tiles, the bottom-center for characters.
func (e *Entity) Anchor() (float64, float64) {
	return anchorFor(e.Kind, e.Cell)
}

func anchorFor(k Kind, c grid.Cell) (float64, float64) {
	switch k {
	case KindTile:
		return grid.ToWorld(c)
	case KindCharacter:
		return grid.CharacterAnchor(c)
	default:
		panic(fmt.Sprintf("placement: unhandled kind %v", k))
	}
}

// Bounds is the world-space body used for selection tests.
func (e *Entity) Bounds() common.Rect {
	x, y := e.Anchor()
	switch e.Kind {
	case KindTile:
		return common.Rect{X: x, Y: y, Width: grid.Size, Height: grid.Size}
	case KindCharacter:
		return common.Rect{X: x, Y: y - grid.Size/2, Width: grid.Size, Height: grid.Size}
	default:
		panic(fmt.Sprintf("placement: unhandled kind %v", e.Kind))
	}
}

// SetCell moves the logical position, keeping the tile record in sync.
func (e *Entity) SetCell(c grid.Cell) {
	e.Cell = c
	switch e.Kind {
	case KindTile:
		e.Tile.Data.GX, e.Tile.Data.GY = c.X, c.Y
	case KindCharacter:
	}
}

// Snap puts the visual back on the anchor of the current cell.
func (e *Entity) Snap() {
	if e.Visual == nil {
		return
	}
	e.Visual.SetPosition(e.Anchor())
}

func (e *Entity) Selected() bool { return e.selected }
func (e *Entity) Hovered() bool  { return e.hovered }

// SetHovered toggles the hover outline.
func (e *Entity) SetHovered(h bool) {
	e.hovered = h
	e.applyStyle()
}

func (e *Entity) setSelected(s bool) {
	e.selected = s
	e.applyStyle()
}

func (e *Entity) applyStyle() {
	if e.Visual == nil {
		return
	}
	switch {
	case e.hovered:
		e.Visual.SetHighlight(render.HighlightHover)
	case e.selected:
		e.Visual.SetHighlight(render.HighlightSelected)
	default:
		e.Visual.SetHighlight(render.HighlightNone)
	}
	switch e.Kind {
	case KindTile:
		if e.selected || e.hovered {
			e.Visual.SetDepth(render.DepthHover)
		} else {
			e.Visual.SetDepth(render.DepthTiles)
		}
	case KindCharacter:
		e.Visual.SetDepth(e.Character.Depth)
	}
}

// Record returns the persisted form of a tile. ok is false for characters.
func (e *Entity) Record() (levels.Tile, bool) {
	switch e.Kind {
	case KindTile:
		return e.Tile.Data.Clone(), true
	case KindCharacter:
		return levels.Tile{}, false
	default:
		return levels.Tile{}, false
	}
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s %s@%s", e.Kind, e.TypeID(), e.Cell)
}
