package placement

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/milk9111/gridpaint/grid"
	"github.com/milk9111/gridpaint/interaction"
	"github.com/milk9111/gridpaint/occupancy"
	"github.com/milk9111/gridpaint/registry"
	"github.com/milk9111/gridpaint/render"
)

// DefaultCharacterDepth is the draw depth of a placed character.
const DefaultCharacterDepth = 100

// CharacterService creates character entities and owns the character
// selection set.
type CharacterService struct {
	defs    *registry.Characters
	surface render.Surface
	occ     *occupancy.Layered[*Entity]
	depth   int

	selected  map[*Entity]struct{}
	listeners map[int]func([]*Entity)
	nextID    int
}

func newCharacterService(defs *registry.Characters, surface render.Surface, occ *occupancy.Layered[*Entity], depth int) *CharacterService {
	if depth == 0 {
		depth = DefaultCharacterDepth
	}
	return &CharacterService{
		defs:      defs,
		surface:   surface,
		occ:       occ,
		depth:     depth,
		selected:  make(map[*Entity]struct{}),
		listeners: make(map[int]func([]*Entity)),
	}
}

// Spawn builds a character entity standing on the bottom edge of c.
func (s *CharacterService) Spawn(id string, c grid.Cell, facing string, layer occupancy.LayerID) (*Entity, error) {
	def, err := s.defs.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("placement: spawn character: %w", err)
	}
	if facing == "" {
		facing = registry.FacingLeft
	}
	if layer == "" {
		layer = occupancy.DefaultLayer
	}
	image := def.Sprite
	if image == "" {
		image = def.Headshot(facing)
	}
	visual := s.surface.Spawn(render.Sprite{
		Kind:         render.SpriteCharacter,
		Image:        image,
		Color:        def.Color.RGBA,
		Width:        grid.Size,
		Height:       grid.Size,
		AnchorBottom: true,
		Scale:        def.Scale,
	})
	e := &Entity{
		Kind:   KindCharacter,
		ID:     uuid.NewString(),
		Cell:   c,
		Layer:  layer,
		Visual: visual,
		Character: &CharacterPayload{
			CharacterID: id,
			Def:         def,
			Facing:      facing,
			Depth:       s.depth,
		},
	}
	e.Snap()
	e.applyStyle()
	return e, nil
}

func (s *CharacterService) discard(e *Entity) {
	e.hovered = false
	if _, ok := s.selected[e]; ok {
		delete(s.selected, e)
		e.setSelected(false)
		s.notify()
	}
	if e.Visual != nil {
		e.Visual.Destroy()
	}
}

// Select marks chars as selected. Without additive the previous selection is
// dropped first.
func (s *CharacterService) Select(chars []*Entity, additive bool) {
	if !additive {
		for e := range s.selected {
			e.setSelected(false)
		}
		clear(s.selected)
	}
	for _, e := range chars {
		if e.Kind != KindCharacter {
			continue
		}
		s.selected[e] = struct{}{}
		e.setSelected(true)
	}
	s.notify()
}

func (s *CharacterService) Deselect(chars []*Entity) {
	changed := false
	for _, e := range chars {
		if _, ok := s.selected[e]; ok {
			delete(s.selected, e)
			e.setSelected(false)
			changed = true
		}
	}
	if changed {
		s.notify()
	}
}

func (s *CharacterService) ClearSelection() {
	if len(s.selected) == 0 {
		return
	}
	for e := range s.selected {
		e.setSelected(false)
	}
	clear(s.selected)
	s.notify()
}

func (s *CharacterService) IsSelected(e *Entity) bool {
	_, ok := s.selected[e]
	return ok
}

func (s *CharacterService) Selected() []*Entity {
	out := make([]*Entity, 0, len(s.selected))
	for e := range s.selected {
		out = append(out, e)
	}
	sortByCell(out)
	return out
}

// Subscribe registers fn and calls it right away with the current selection.
func (s *CharacterService) Subscribe(fn func([]*Entity)) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	fn(s.Selected())
	return func() { delete(s.listeners, id) }
}

func (s *CharacterService) notify() {
	if len(s.listeners) == 0 {
		return
	}
	sel := s.Selected()
	for _, fn := range s.listeners {
		fn(sel)
	}
}

// HandleSelection reacts to the box-selection stream. On end, characters
// whose body overlaps the rectangle join the selection and the rest leave
// it; on clear everything is deselected.
func (s *CharacterService) HandleSelection(ev interaction.SelectionEvent) {
	switch ev.Phase {
	case interaction.SelectionStart, interaction.SelectionUpdate:
	case interaction.SelectionEnd:
		if ev.Rect == nil {
			return
		}
		var in, out []*Entity
		for _, layer := range s.occ.Layers() {
			for _, e := range layer.All() {
				if e.Kind != KindCharacter {
					continue
				}
				if e.Bounds().Overlaps(*ev.Rect) {
					in = append(in, e)
				} else {
					out = append(out, e)
				}
			}
		}
		s.Deselect(out)
		if len(in) > 0 {
			s.Select(in, true)
		}
		log.Printf("placement: box selected %d characters", len(in))
	case interaction.SelectionClear:
		s.ClearSelection()
	}
}

// ClearAll removes every character from occupancy and the surface.
func (s *CharacterService) ClearAll() {
	for _, layer := range s.occ.Layers() {
		for _, e := range layer.Values() {
			if e.Kind != KindCharacter {
				continue
			}
			layer.Delete(e.Cell)
			s.discard(e)
		}
	}
	s.ClearSelection()
}
