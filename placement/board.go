package placement

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/milk9111/gridpaint/grid"
	"github.com/milk9111/gridpaint/levels"
	"github.com/milk9111/gridpaint/occupancy"
	"github.com/milk9111/gridpaint/registry"
	"github.com/milk9111/gridpaint/render"
)

type Options struct {
	// ViewHistory is how many recent random views per tile type to avoid.
	ViewHistory    int
	CharacterDepth int
	Rand           *rand.Rand
}

// Board is the placed world: layered occupancy plus the services that own
// tile and character visuals. It is the factory every placement command
// talks to.
type Board struct {
	Registry   *registry.Set
	Occupancy  *occupancy.Layered[*Entity]
	Tiles      *TileService
	Characters *CharacterService
}

func NewBoard(reg *registry.Set, surface render.Surface, opts Options) *Board {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	occ := occupancy.NewLayered[*Entity]()
	return &Board{
		Registry:   reg,
		Occupancy:  occ,
		Tiles:      newTileService(reg.Tiles, surface, occ, rng, opts.ViewHistory),
		Characters: newCharacterService(reg.Characters, surface, occ, opts.CharacterDepth),
	}
}

func (b *Board) SpawnTile(data levels.Tile, layer occupancy.LayerID) (*Entity, error) {
	return b.Tiles.Spawn(data, layer)
}

func (b *Board) SpawnCharacter(id string, c grid.Cell, facing string, layer occupancy.LayerID) (*Entity, error) {
	return b.Characters.Spawn(id, c, facing, layer)
}

// Discard takes e off the surface and out of any selection.
func (b *Board) Discard(e *Entity) {
	switch e.Kind {
	case KindTile:
		b.Tiles.discard(e)
	case KindCharacter:
		b.Characters.discard(e)
	}
}

// Revive puts a discarded instance back, unselected, on its current cell.
func (b *Board) Revive(e *Entity) {
	e.selected = false
	e.hovered = false
	if e.Visual != nil {
		e.Visual.Restore()
		if e.Kind == KindTile {
			e.Visual.SetFrame(e.Tile.Def.Image(e.Tile.Data.View))
		}
	}
	e.Snap()
	e.applyStyle()
}

// Refresh re-resolves state that depends on neighbours of c.
func (b *Board) Refresh(c grid.Cell, layer occupancy.LayerID) {
	b.Tiles.refresh(c, layer)
}

// PlaceTile returns an unapplied command painting tileType at c.
func (b *Board) PlaceTile(c grid.Cell, tileType string) *PlaceTile {
	return NewPlaceTile(b.Occupancy, b, levels.Tile{Type: tileType, GX: c.X, GY: c.Y}, occupancy.DefaultLayer)
}

// PlaceRecord returns an unapplied command placing a copy of rec, keeping
// its view and metadata but not its id.
func (b *Board) PlaceRecord(rec levels.Tile) *PlaceTile {
	rec = rec.Clone()
	rec.ID = ""
	return NewPlaceTile(b.Occupancy, b, rec, occupancy.DefaultLayer)
}

func (b *Board) PlaceCharacter(id string, c grid.Cell, facing string) *PlaceCharacter {
	return NewPlaceCharacter(b.Occupancy, b, id, c, facing, occupancy.DefaultLayer)
}

// Remove deletes e outright, bypassing the command history. It reports
// false if e is not where it claims to be.
func (b *Board) Remove(e *Entity) bool {
	cur, ok := b.Occupancy.Get(e.Cell, e.Layer)
	if !ok || cur != e {
		return false
	}
	b.Occupancy.Delete(e.Cell, e.Layer)
	b.Discard(e)
	b.Refresh(e.Cell, e.Layer)
	return true
}

// At returns the topmost entity at c across layers.
func (b *Board) At(c grid.Cell) (*Entity, bool) {
	var found *Entity
	for _, layer := range b.Occupancy.Layers() {
		if e, ok := layer.Get(c); ok {
			found = e
		}
	}
	return found, found != nil
}

// Entities returns every placed entity in row-major order.
func (b *Board) Entities() []*Entity {
	var out []*Entity
	for _, layer := range b.Occupancy.Layers() {
		out = append(out, layer.Values()...)
	}
	sortByCell(out)
	return out
}

// Records returns the persisted form of every tile.
func (b *Board) Records() []levels.Tile {
	var out []levels.Tile
	for _, e := range b.Entities() {
		if rec, ok := e.Record(); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Selection returns the selected tiles followed by the selected characters.
func (b *Board) Selection() []*Entity {
	return slices.Concat(b.Tiles.Selected(), b.Characters.Selected())
}

func (b *Board) ClearSelection() {
	b.Tiles.ClearSelection()
	b.Characters.ClearSelection()
}

// IsSelected dispatches to the service that owns e's kind.
func (b *Board) IsSelected(e *Entity) bool {
	switch e.Kind {
	case KindTile:
		return b.Tiles.IsSelected(e)
	case KindCharacter:
		return b.Characters.IsSelected(e)
	default:
		return false
	}
}

// SelectedOfKind returns the current selection of one kind.
func (b *Board) SelectedOfKind(k Kind) []*Entity {
	switch k {
	case KindTile:
		return b.Tiles.Selected()
	case KindCharacter:
		return b.Characters.Selected()
	default:
		return nil
	}
}

// Clear empties the board.
func (b *Board) Clear() {
	b.Tiles.ClearAll()
	b.Characters.ClearAll()
	b.Occupancy.Clear()
}

func (b *Board) Tick(dt time.Duration) {
	b.Tiles.Tick(dt)
}
