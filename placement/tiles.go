package placement

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"

	"github.com/milk9111/gridpaint/common"
	"github.com/milk9111/gridpaint/grid"
	"github.com/milk9111/gridpaint/levels"
	"github.com/milk9111/gridpaint/occupancy"
	"github.com/milk9111/gridpaint/registry"
	"github.com/milk9111/gridpaint/render"
)

// TileService creates tile entities and keeps their editor-only state:
// selection, random views and editor animation.
type TileService struct {
	defs    *registry.Tiles
	surface render.Surface
	occ     *occupancy.Layered[*Entity]
	rng     *rand.Rand

	viewHistory int
	recentViews map[string][]string

	selected map[*Entity]struct{}
	timers   map[*animTimer]struct{}
}

func newTileService(defs *registry.Tiles, surface render.Surface, occ *occupancy.Layered[*Entity], rng *rand.Rand, viewHistory int) *TileService {
	return &TileService{
		defs:        defs,
		surface:     surface,
		occ:         occ,
		rng:         rng,
		viewHistory: viewHistory,
		recentViews: make(map[string][]string),
		selected:    make(map[*Entity]struct{}),
		timers:      make(map[*animTimer]struct{}),
	}
}

// Spawn builds a tile entity and its visual. It does not touch occupancy.
func (s *TileService) Spawn(data levels.Tile, layer occupancy.LayerID) (*Entity, error) {
	def, err := s.defs.Lookup(data.Type)
	if err != nil {
		return nil, fmt.Errorf("placement: spawn tile: %w", err)
	}
	data = data.Clone()
	if data.ID == "" {
		data.ID = uuid.NewString()
	}
	if data.View == "" {
		data.View = s.pickView(data.Type, def)
	}
	if layer == "" {
		layer = occupancy.DefaultLayer
	}

	visual := s.surface.Spawn(render.Sprite{
		Kind:   render.SpriteTile,
		Image:  def.Image(data.View),
		Color:  def.Color.RGBA,
		Width:  grid.Size,
		Height: grid.Size,
		Scale:  1,
	})
	e := &Entity{
		Kind:   KindTile,
		ID:     data.ID,
		Cell:   data.Cell(),
		Layer:  layer,
		Visual: visual,
		Tile:   &TilePayload{Data: data, Def: def, cascadeIndex: -1},
	}
	e.Snap()
	e.applyStyle()
	return e, nil
}

// pickView chooses a random view for a new tile, skipping "front" when other
// views exist and avoiding the views picked most recently for that type.
func (s *TileService) pickView(typeID string, def *registry.TileDef) string {
	views := def.Views()
	if len(views) == 0 {
		return ""
	}
	if len(views) > 1 && slices.Contains(views, registry.FrontView) {
		views = slices.DeleteFunc(views, func(v string) bool { return v == registry.FrontView })
	}

	history := s.recentViews[typeID]
	fresh := slices.DeleteFunc(slices.Clone(views), func(v string) bool {
		return slices.Contains(history, v)
	})
	pool := views
	if len(fresh) > 0 {
		pool = fresh
	}
	chosen := pool[s.rng.IntN(len(pool))]

	if s.viewHistory > 0 {
		history = append(history, chosen)
		if len(history) > s.viewHistory {
			history = history[len(history)-s.viewHistory:]
		}
		s.recentViews[typeID] = slices.Clone(history)
	}
	return chosen
}

func (s *TileService) discard(e *Entity) {
	s.stopAnimation(e)
	s.deselect(e)
	e.hovered = false
	if e.Visual != nil {
		e.Visual.Destroy()
	}
}

// tileAt returns the tile occupying c, ignoring characters.
func (s *TileService) tileAt(c grid.Cell, layer occupancy.LayerID) (*Entity, bool) {
	e, ok := s.occ.Get(c, layer)
	if !ok || e.Kind != KindTile {
		return nil, false
	}
	return e, true
}

// SetSelection replaces the selection.
func (s *TileService) SetSelection(tiles []*Entity) {
	s.ClearSelection()
	for _, t := range tiles {
		if t.Kind != KindTile {
			continue
		}
		s.selected[t] = struct{}{}
		t.setSelected(true)
	}
}

func (s *TileService) ClearSelection() {
	for t := range s.selected {
		t.setSelected(false)
	}
	clear(s.selected)
}

func (s *TileService) deselect(e *Entity) {
	if _, ok := s.selected[e]; ok {
		delete(s.selected, e)
		e.setSelected(false)
	}
}

func (s *TileService) IsSelected(e *Entity) bool {
	_, ok := s.selected[e]
	return ok
}

// Selected returns the selection in row-major order.
func (s *TileService) Selected() []*Entity {
	out := make([]*Entity, 0, len(s.selected))
	for t := range s.selected {
		out = append(out, t)
	}
	sortByCell(out)
	return out
}

// BoxSelect replaces the selection with every tile whose center lies inside
// rect, edges included.
func (s *TileService) BoxSelect(rect common.Rect) []*Entity {
	var picked []*Entity
	for _, layer := range s.occ.Layers() {
		for _, e := range layer.All() {
			if e.Kind != KindTile {
				continue
			}
			if rect.ContainsPoint(e.Anchor()) {
				picked = append(picked, e)
			}
		}
	}
	sortByCell(picked)
	s.SetSelection(picked)
	return picked
}

// CascadeChain returns the vertically contiguous run of cascading tiles
// through c, starting from the largest gy. It is empty if the tile at c does
// not cascade.
func (s *TileService) CascadeChain(c grid.Cell, layer occupancy.LayerID) []*Entity {
	if !s.cascades(c, layer) {
		return nil
	}
	y := c.Y
	for s.cascades(grid.Cell{X: c.X, Y: y + 1}, layer) {
		y++
	}
	var chain []*Entity
	for {
		e, ok := s.tileAt(grid.Cell{X: c.X, Y: y}, layer)
		if !ok || !e.Tile.Def.Properties.Cascading {
			break
		}
		chain = append(chain, e)
		y--
	}
	return chain
}

func (s *TileService) cascades(c grid.Cell, layer occupancy.LayerID) bool {
	e, ok := s.tileAt(c, layer)
	return ok && e.Tile.Def.Properties.Cascading
}

// LoadTiles populates occupancy in one pass and resolves editor animation in a
// second, so cascading chains see their full extent.
func (s *TileService) LoadTiles(records []levels.Tile) ([]*Entity, error) {
	created := make([]*Entity, 0, len(records))
	for _, rec := range records {
		e, err := s.Spawn(rec, occupancy.DefaultLayer)
		if err != nil {
			return created, err
		}
		if !s.occ.Set(e.Cell, e, e.Layer) {
			s.discard(e)
			return created, fmt.Errorf("placement: load: cell %s occupied twice", e.Cell)
		}
		created = append(created, e)
	}
	for _, e := range created {
		s.resolveAnimation(e)
	}
	return created, nil
}

// ClearAll removes every tile from occupancy and the surface.
func (s *TileService) ClearAll() {
	for _, layer := range s.occ.Layers() {
		for _, e := range layer.Values() {
			if e.Kind != KindTile {
				continue
			}
			layer.Delete(e.Cell)
			s.discard(e)
		}
	}
	s.ClearSelection()
	clear(s.timers)
	clear(s.recentViews)
}

func sortByCell(es []*Entity) {
	slices.SortFunc(es, func(a, b *Entity) int {
		return cmp.Or(cmp.Compare(a.Cell.Y, b.Cell.Y), cmp.Compare(a.Cell.X, b.Cell.X), cmp.Compare(a.ID, b.ID))
	})
}
