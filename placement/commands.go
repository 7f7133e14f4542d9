package placement

import (
	"cmp"
	"slices"

	"github.com/milk9111/gridpaint/command"
	"github.com/milk9111/gridpaint/grid"
	"github.com/milk9111/gridpaint/levels"
	"github.com/milk9111/gridpaint/occupancy"
)

// Grid is the occupancy view commands mutate.
type Grid interface {
	Get(c grid.Cell, layer occupancy.LayerID) (*Entity, bool)
	Set(c grid.Cell, e *Entity, layer occupancy.LayerID) bool
	Delete(c grid.Cell, layer occupancy.LayerID)
}

// Lifecycle takes entities off the surface and puts the same instances back.
type Lifecycle interface {
	Discard(e *Entity)
	Revive(e *Entity)
	Refresh(c grid.Cell, layer occupancy.LayerID)
}

type TileFactory interface {
	Lifecycle
	SpawnTile(data levels.Tile, layer occupancy.LayerID) (*Entity, error)
}

type CharacterFactory interface {
	Lifecycle
	SpawnCharacter(id string, c grid.Cell, facing string, layer occupancy.LayerID) (*Entity, error)
}

// place is shared by tile and character placement: swap whatever occupies
// the cell for a new entity, and swap the very same instances back on revert.
type place struct {
	label    string
	grid     Grid
	life     Lifecycle
	cell     grid.Cell
	layer    occupancy.LayerID
	replaced *Entity
	placed   *Entity
	spawn    func() (*Entity, error)
}

func newPlace(label string, g Grid, life Lifecycle, c grid.Cell, layer occupancy.LayerID) place {
	if layer == "" {
		layer = occupancy.DefaultLayer
	}
	replaced, _ := g.Get(c, layer)
	return place{label: label, grid: g, life: life, cell: c, layer: layer, replaced: replaced}
}

func (p *place) Label() string { return p.label }

func (p *place) Apply() error {
	cur, ok := p.grid.Get(p.cell, p.layer)
	switch {
	case p.replaced != nil && cur != p.replaced:
		return command.Conflict(p.label, "cell %s no longer holds the entity it replaces", p.cell)
	case p.replaced == nil && ok:
		return command.Conflict(p.label, "cell %s was taken by %s", p.cell, cur)
	}

	if p.placed == nil {
		e, err := p.spawn()
		if err != nil {
			return err
		}
		p.placed = e
	} else {
		p.life.Revive(p.placed)
	}

	if p.replaced != nil {
		p.grid.Delete(p.cell, p.layer)
		p.life.Discard(p.replaced)
	}
	if !p.grid.Set(p.cell, p.placed, p.layer) {
		return command.Conflict(p.label, "cell %s still occupied", p.cell)
	}
	p.life.Refresh(p.cell, p.layer)
	return nil
}

func (p *place) Revert() error {
	if p.placed == nil {
		return command.Conflict(p.label, "revert before apply")
	}
	cur, ok := p.grid.Get(p.cell, p.layer)
	if !ok || cur != p.placed {
		return command.Conflict(p.label, "cell %s no longer holds the placed entity", p.cell)
	}

	p.grid.Delete(p.cell, p.layer)
	p.life.Discard(p.placed)
	if p.replaced != nil {
		p.grid.Set(p.cell, p.replaced, p.layer)
		p.life.Revive(p.replaced)
	}
	p.life.Refresh(p.cell, p.layer)
	return nil
}

// Placed returns the entity created by the first Apply.
func (p *place) Placed() *Entity { return p.placed }

// Replaced returns the entity that occupied the cell when the command was
// built.
func (p *place) Replaced() *Entity { return p.replaced }

// PlaceTile puts a tile on a cell, replacing any occupant.
type PlaceTile struct {
	place
}

// NewPlaceTile captures the current occupant of data's cell. data.ID may be
// empty, in which case a new id is assigned on first apply.
func NewPlaceTile(g Grid, f TileFactory, data levels.Tile, layer occupancy.LayerID) *PlaceTile {
	c := &PlaceTile{place: newPlace("Place Tile", g, f, data.Cell(), layer)}
	tmpl := data.Clone()
	c.spawn = func() (*Entity, error) { return f.SpawnTile(tmpl, c.layer) }
	return c
}

// PlaceCharacter puts a character on a cell, replacing any occupant.
type PlaceCharacter struct {
	place
}

func NewPlaceCharacter(g Grid, f CharacterFactory, id string, cell grid.Cell, facing string, layer occupancy.LayerID) *PlaceCharacter {
	c := &PlaceCharacter{place: newPlace("Place Character", g, f, cell, layer)}
	c.spawn = func() (*Entity, error) { return f.SpawnCharacter(id, cell, facing, c.layer) }
	return c
}

// Move relocates one entity, optionally displacing an occupant at the
// destination.
type Move struct {
	grid     Grid
	life     Lifecycle
	entity   *Entity
	from, to grid.Cell
	replaced *Entity
}

func NewMove(g Grid, life Lifecycle, e *Entity, to grid.Cell, replaced *Entity) *Move {
	return &Move{grid: g, life: life, entity: e, from: e.Cell, to: to, replaced: replaced}
}

func (m *Move) Label() string {
	switch m.entity.Kind {
	case KindCharacter:
		return "Move Character"
	default:
		return "Move Tile"
	}
}

func (m *Move) Apply() error {
	layer := m.entity.Layer
	if cur, ok := m.grid.Get(m.from, layer); !ok || cur != m.entity {
		return command.Conflict(m.Label(), "%s is not at %s", m.entity, m.from)
	}
	cur, ok := m.grid.Get(m.to, layer)
	switch {
	case m.replaced != nil && cur != m.replaced:
		return command.Conflict(m.Label(), "destination %s changed", m.to)
	case m.replaced == nil && ok:
		return command.Conflict(m.Label(), "destination %s is occupied by %s", m.to, cur)
	}

	if m.replaced != nil {
		m.grid.Delete(m.to, layer)
		m.life.Discard(m.replaced)
	}
	m.grid.Delete(m.from, layer)
	m.grid.Set(m.to, m.entity, layer)
	m.entity.SetCell(m.to)
	m.entity.Snap()
	m.life.Refresh(m.from, layer)
	m.life.Refresh(m.to, layer)
	return nil
}

func (m *Move) Revert() error {
	layer := m.entity.Layer
	if cur, ok := m.grid.Get(m.to, layer); !ok || cur != m.entity {
		return command.Conflict(m.Label(), "%s is not at %s", m.entity, m.to)
	}
	if cur, ok := m.grid.Get(m.from, layer); ok {
		return command.Conflict(m.Label(), "origin %s is occupied by %s", m.from, cur)
	}

	m.grid.Delete(m.to, layer)
	m.grid.Set(m.from, m.entity, layer)
	m.entity.SetCell(m.from)
	m.entity.Snap()
	if m.replaced != nil {
		m.grid.Set(m.to, m.replaced, layer)
		m.life.Revive(m.replaced)
	}
	m.life.Refresh(m.from, layer)
	m.life.Refresh(m.to, layer)
	return nil
}

// CanMoveGroup reports whether every member's destination is free or held by
// another member.
func CanMoveGroup(g Grid, members []*Entity, delta grid.Cell) bool {
	in := make(map[*Entity]struct{}, len(members))
	for _, e := range members {
		in[e] = struct{}{}
	}
	for _, e := range members {
		at, ok := g.Get(e.Cell.Add(delta), e.Layer)
		if !ok {
			continue
		}
		if _, member := in[at]; !member {
			return false
		}
	}
	return true
}

// MoveGroup builds one composite moving every member by delta. Members are
// ordered leading edge first so no child lands on a member that has not
// moved yet.
func MoveGroup(g Grid, life Lifecycle, members []*Entity, delta grid.Cell) *command.Composite {
	label := "Move Tiles"
	if len(members) > 0 && members[0].Kind == KindCharacter {
		label = "Move Characters"
	}
	ordered := slices.Clone(members)
	slices.SortStableFunc(ordered, func(a, b *Entity) int {
		pa := a.Cell.X*delta.X + a.Cell.Y*delta.Y
		pb := b.Cell.X*delta.X + b.Cell.Y*delta.Y
		return cmp.Compare(pb, pa)
	})

	comp := command.NewComposite(label)
	for _, e := range ordered {
		comp.Add(NewMove(g, life, e, e.Cell.Add(delta), nil))
	}
	return comp
}
