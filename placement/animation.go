package placement

import (
	"slices"
	"time"

	"github.com/milk9111/gridpaint/grid"
	"github.com/milk9111/gridpaint/occupancy"
)

// animTimer drives editor frame cycling. A lone animated tile owns its timer
// and walks a shuffled frame list; a cascading chain shares one timer and
// each member shows frames[(tick+cascadeIndex) % n].
type animTimer struct {
	delay   time.Duration
	elapsed time.Duration
	frames  []string
	members []*Entity

	cascading bool
	tick      int
	index     int
}

func (a *animTimer) step() {
	a.tick++
	a.index = (a.index + 1) % len(a.frames)
	for _, e := range a.members {
		if e.Visual == nil || !e.Visual.Alive() {
			continue
		}
		if a.cascading {
			e.Visual.SetFrame(a.frames[(a.tick+e.Tile.cascadeIndex)%len(a.frames)])
		} else {
			e.Visual.SetFrame(a.frames[a.index])
		}
	}
}

func (a *animTimer) alive() bool {
	for _, e := range a.members {
		if e.Visual != nil && e.Visual.Alive() {
			return true
		}
	}
	return false
}

// Tick advances every running editor animation by dt.
func (s *TileService) Tick(dt time.Duration) {
	for t := range s.timers {
		t.elapsed += dt
		for t.elapsed >= t.delay {
			t.elapsed -= t.delay
			t.step()
		}
		if !t.alive() {
			delete(s.timers, t)
		}
	}
}

// Animating reports how many timers are running.
func (s *TileService) Animating() int { return len(s.timers) }

func (s *TileService) resolveAnimation(e *Entity) {
	props := e.Tile.Def.Properties
	if !props.EditorAnimated {
		return
	}
	if props.Cascading {
		s.startCascade(e.Cell, e.Layer)
		return
	}
	s.startSingle(e)
}

func (s *TileService) startSingle(e *Entity) {
	if e.Tile.anim != nil {
		return
	}
	frames := e.Tile.Def.Frames()
	if len(frames) <= 1 {
		return
	}
	s.rng.Shuffle(len(frames), func(i, j int) { frames[i], frames[j] = frames[j], frames[i] })
	t := &animTimer{
		delay:   time.Duration(e.Tile.Def.AnimationDelayMs()) * time.Millisecond,
		frames:  frames,
		members: []*Entity{e},
	}
	e.Tile.anim = t
	s.timers[t] = struct{}{}
}

func (s *TileService) startCascade(c grid.Cell, layer occupancy.LayerID) {
	chain := s.CascadeChain(c, layer)
	if len(chain) == 0 {
		return
	}
	origin := chain[0]
	if at, ok := s.tileAt(c, layer); ok {
		origin = at
	}
	frames := origin.Tile.Def.Frames()
	if len(frames) <= 1 {
		return
	}
	for _, e := range chain {
		s.stopAnimation(e)
	}
	t := &animTimer{
		delay:     time.Duration(origin.Tile.Def.AnimationDelayMs()) * time.Millisecond,
		frames:    frames,
		members:   chain,
		cascading: true,
	}
	for i, e := range chain {
		e.Tile.cascadeIndex = i
		e.Tile.anim = t
		e.Visual.SetFrame(frames[i%len(frames)])
	}
	s.timers[t] = struct{}{}
}

func (s *TileService) stopAnimation(e *Entity) {
	if e.Kind != KindTile {
		return
	}
	if t := e.Tile.anim; t != nil {
		t.members = slices.DeleteFunc(t.members, func(m *Entity) bool { return m == e })
		if len(t.members) == 0 {
			delete(s.timers, t)
		}
	}
	e.Tile.anim = nil
	e.Tile.cascadeIndex = -1
}

// refresh re-resolves editor animation after the tile at c changed. The
// neighbours above and below are included because a change can join or
// split a cascading column.
func (s *TileService) refresh(c grid.Cell, layer occupancy.LayerID) {
	seen := make(map[*Entity]struct{})
	for _, dy := range []int{-1, 0, 1} {
		e, ok := s.tileAt(grid.Cell{X: c.X, Y: c.Y + dy}, layer)
		if !ok {
			continue
		}
		if _, done := seen[e]; done {
			continue
		}
		props := e.Tile.Def.Properties
		if !props.EditorAnimated {
			continue
		}
		if props.Cascading {
			for _, m := range s.CascadeChain(e.Cell, layer) {
				seen[m] = struct{}{}
			}
			s.startCascade(e.Cell, layer)
			continue
		}
		seen[e] = struct{}{}
		s.startSingle(e)
	}
}
