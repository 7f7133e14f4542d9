package placement

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/milk9111/gridpaint/command"
	"github.com/milk9111/gridpaint/common"
	"github.com/milk9111/gridpaint/grid"
	"github.com/milk9111/gridpaint/interaction"
	"github.com/milk9111/gridpaint/levels"
	"github.com/milk9111/gridpaint/occupancy"
	"github.com/milk9111/gridpaint/registry"
	"github.com/milk9111/gridpaint/render"
	"github.com/milk9111/gridpaint/render/rendertest"
)

func newTestBoard(t *testing.T) (*Board, *rendertest.Surface) {
	t.Helper()
	set, err := registry.Load(context.Background(), registry.DefaultSource(""))
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	surface := rendertest.NewSurface()
	b := NewBoard(set, surface, Options{
		ViewHistory: 2,
		Rand:        rand.New(rand.NewPCG(1, 2)),
	})
	return b, surface
}

func mustAt(t *testing.T, b *Board, c grid.Cell) *Entity {
	t.Helper()
	e, ok := b.Occupancy.Get(c, occupancy.DefaultLayer)
	if !ok {
		t.Fatalf("nothing at %s", c)
	}
	return e
}

func paint(t *testing.T, b *Board, s *command.Stack, c grid.Cell, tileType string) *PlaceTile {
	t.Helper()
	cmd := b.PlaceTile(c, tileType)
	if err := s.Execute(cmd); err != nil {
		t.Fatalf("place %s at %s: %v", tileType, c, err)
	}
	return cmd
}

func TestPlaceTileReplacesAndRestoresSameInstance(t *testing.T) {
	b, _ := newTestBoard(t)
	s := command.NewStack(0)
	c := grid.Cell{X: 2, Y: 3}

	first := paint(t, b, s, c, "grass").Placed()
	second := paint(t, b, s, c, "dirt")
	if second.Replaced() != first {
		t.Fatalf("second placement should capture the grass tile")
	}
	if got := mustAt(t, b, c); got != second.Placed() {
		t.Fatalf("expected dirt at %s, got %s", c, got)
	}
	if first.Visual.Alive() {
		t.Fatalf("replaced tile's visual should be destroyed")
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := mustAt(t, b, c); got != first {
		t.Fatalf("undo should restore the same grass instance, got %s", got)
	}
	if !first.Visual.Alive() {
		t.Fatalf("restored tile's visual should be alive")
	}
	if x, y := first.Visual.Position(); x != 2*grid.Size+16 || y != 3*grid.Size+16 {
		t.Fatalf("restored tile at (%v,%v)", x, y)
	}

	dirtID := second.Placed().ID
	if err := s.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := mustAt(t, b, c); got != second.Placed() || got.ID != dirtID {
		t.Fatalf("redo should revive the same dirt instance")
	}
	if b.Occupancy.Len() != 1 {
		t.Fatalf("expected one occupant, got %d", b.Occupancy.Len())
	}
}

func TestPlaceTileKeepsGivenID(t *testing.T) {
	b, _ := newTestBoard(t)
	cmd := NewPlaceTile(b.Occupancy, b, levels.Tile{ID: "keep-me", Type: "stone", GX: 1, GY: 1}, "")
	if err := cmd.Apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cmd.Placed().ID != "keep-me" {
		t.Fatalf("id = %q", cmd.Placed().ID)
	}
	if cmd.Label() != "Place Tile" {
		t.Fatalf("label = %q", cmd.Label())
	}
}

func TestPlaceUnknownTileFails(t *testing.T) {
	b, _ := newTestBoard(t)
	err := b.PlaceTile(grid.Cell{}, "lava").Apply()
	if !errors.Is(err, registry.ErrUnknownTile) {
		t.Fatalf("expected ErrUnknownTile, got %v", err)
	}
	if b.Occupancy.Len() != 0 {
		t.Fatalf("failed placement left an occupant")
	}
}

func TestPlacePreconditions(t *testing.T) {
	b, _ := newTestBoard(t)
	c := grid.Cell{X: 0, Y: 0}

	stale := b.PlaceTile(c, "grass")
	if err := b.PlaceTile(c, "dirt").Apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := stale.Apply(); !errors.Is(err, command.ErrConflict) {
		t.Fatalf("expected conflict on a cell taken since capture, got %v", err)
	}

	if err := b.PlaceTile(grid.Cell{X: 5}, "grass").Revert(); !errors.Is(err, command.ErrConflict) {
		t.Fatalf("revert before apply should conflict, got %v", err)
	}

	placed := b.PlaceTile(grid.Cell{X: 1}, "stone")
	if err := placed.Apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !b.Remove(placed.Placed()) {
		t.Fatalf("remove failed")
	}
	if err := placed.Revert(); !errors.Is(err, command.ErrConflict) {
		t.Fatalf("revert after external removal should conflict, got %v", err)
	}
}

func TestPlaceCharacter(t *testing.T) {
	b, surface := newTestBoard(t)
	s := command.NewStack(0)
	c := grid.Cell{X: 1, Y: 1}
	tile := paint(t, b, s, c, "grass").Placed()

	cmd := b.PlaceCharacter("knight", c, "")
	if err := s.Execute(cmd); err != nil {
		t.Fatalf("place character: %v", err)
	}
	knight := cmd.Placed()
	if knight.Kind != KindCharacter || knight.Character.Facing != registry.FacingLeft {
		t.Fatalf("unexpected character %+v", knight.Character)
	}
	if x, y := knight.Visual.Position(); x != 48 || y != 64 {
		t.Fatalf("character anchored at (%v,%v), want bottom-center (48,64)", x, y)
	}
	if knight.Visual.Depth() != DefaultCharacterDepth {
		t.Fatalf("depth = %d", knight.Visual.Depth())
	}
	if got := len(surface.Live(render.SpriteCharacter)); got != 1 {
		t.Fatalf("live characters = %d", got)
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := mustAt(t, b, c); got != tile {
		t.Fatalf("undo should bring back the grass tile")
	}
	if got := len(surface.Live(render.SpriteCharacter)); got != 0 {
		t.Fatalf("live characters after undo = %d", got)
	}
}

func TestDiscardDropsCharacterSelection(t *testing.T) {
	b, _ := newTestBoard(t)
	cmd := b.PlaceCharacter("slime", grid.Cell{}, "")
	if err := cmd.Apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	slime := cmd.Placed()
	b.Characters.Select([]*Entity{slime}, false)

	var last []*Entity
	b.Characters.Subscribe(func(sel []*Entity) { last = sel })
	if len(last) != 1 {
		t.Fatalf("subscribe should replay the selection")
	}
	if err := cmd.Revert(); err != nil {
		t.Fatalf("revert: %v", err)
	}
	if b.Characters.IsSelected(slime) || len(last) != 0 {
		t.Fatalf("discarded character still selected")
	}
}

func TestMoveGroupOrdersByDelta(t *testing.T) {
	cases := []struct {
		name  string
		delta grid.Cell
	}{
		{name: "right", delta: grid.Cell{X: 1}},
		{name: "left", delta: grid.Cell{X: -1}},
		{name: "down", delta: grid.Cell{Y: 1}},
		{name: "diagonal", delta: grid.Cell{X: 1, Y: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, _ := newTestBoard(t)
			s := command.NewStack(0)
			var members []*Entity
			for _, c := range []grid.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}} {
				members = append(members, paint(t, b, s, c, "stone").Placed())
			}
			starts := make(map[*Entity]grid.Cell)
			for _, e := range members {
				starts[e] = e.Cell
			}

			if !CanMoveGroup(b.Occupancy, members, tc.delta) {
				t.Fatalf("group should be movable by %s", tc.delta)
			}
			move := MoveGroup(b.Occupancy, b, members, tc.delta)
			if move.Label() != "Move Tiles" {
				t.Fatalf("label = %q", move.Label())
			}
			if err := s.Execute(move); err != nil {
				t.Fatalf("move: %v", err)
			}
			for _, e := range members {
				want := starts[e].Add(tc.delta)
				if got := mustAt(t, b, want); got != e {
					t.Fatalf("%s not at %s", e, want)
				}
				if e.Tile.Data.GX != want.X || e.Tile.Data.GY != want.Y {
					t.Fatalf("record out of sync: %+v", e.Tile.Data)
				}
			}

			if err := s.Undo(); err != nil {
				t.Fatalf("undo: %v", err)
			}
			for _, e := range members {
				if got := mustAt(t, b, starts[e]); got != e {
					t.Fatalf("%s not restored to %s", e, starts[e])
				}
			}
			if b.Occupancy.Len() != len(members) {
				t.Fatalf("occupancy len = %d", b.Occupancy.Len())
			}
		})
	}
}

func TestCanMoveGroupRejectsForeignOccupant(t *testing.T) {
	b, _ := newTestBoard(t)
	s := command.NewStack(0)
	a := paint(t, b, s, grid.Cell{X: 0}, "grass").Placed()
	c := paint(t, b, s, grid.Cell{X: 1}, "grass").Placed()
	paint(t, b, s, grid.Cell{X: 2}, "wall")

	members := []*Entity{a, c}
	if CanMoveGroup(b.Occupancy, members, grid.Cell{X: 1}) {
		t.Fatalf("move onto a foreign wall should be rejected")
	}
	if !CanMoveGroup(b.Occupancy, members, grid.Cell{Y: 1}) {
		t.Fatalf("move into empty row should be allowed")
	}

	// a composite built anyway fails atomically
	err := MoveGroup(b.Occupancy, b, members, grid.Cell{X: 1}).Apply()
	if !errors.Is(err, command.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if mustAt(t, b, grid.Cell{X: 0}) != a || mustAt(t, b, grid.Cell{X: 1}) != c {
		t.Fatalf("failed group move left members displaced")
	}
}

func TestMoveWithReplacedRestoresOnRevert(t *testing.T) {
	b, _ := newTestBoard(t)
	s := command.NewStack(0)
	mover := paint(t, b, s, grid.Cell{X: 0}, "grass").Placed()
	victim := paint(t, b, s, grid.Cell{X: 3}, "dirt").Placed()

	mv := NewMove(b.Occupancy, b, mover, grid.Cell{X: 3}, victim)
	if mv.Label() != "Move Tile" {
		t.Fatalf("label = %q", mv.Label())
	}
	if err := mv.Apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if victim.Visual.Alive() {
		t.Fatalf("displaced tile should be discarded")
	}
	if err := mv.Revert(); err != nil {
		t.Fatalf("revert: %v", err)
	}
	if mustAt(t, b, grid.Cell{X: 3}) != victim || !victim.Visual.Alive() {
		t.Fatalf("displaced tile not restored")
	}
	if mustAt(t, b, grid.Cell{X: 0}) != mover {
		t.Fatalf("mover not back at origin")
	}
}

func TestPickViewSkipsFrontAndRecent(t *testing.T) {
	b, _ := newTestBoard(t)
	s := command.NewStack(0)
	var views []string
	for x := range 12 {
		e := paint(t, b, s, grid.Cell{X: x}, "grass").Placed()
		views = append(views, e.Tile.Data.View)
	}
	for i, v := range views {
		if v == registry.FrontView {
			t.Fatalf("tile %d got the front view", i)
		}
		// three non-front views and a history of two: each pick differs
		// from the previous two
		for j := max(0, i-2); j < i; j++ {
			if views[j] == v {
				t.Fatalf("view %q repeated within history at %d and %d: %v", v, j, i, views)
			}
		}
	}

	// a single-view tile always gets that view
	stone := paint(t, b, s, grid.Cell{Y: 5}, "stone").Placed()
	if stone.Tile.Data.View != registry.DefaultView {
		t.Fatalf("stone view = %q", stone.Tile.Data.View)
	}
}

func TestCascadeChainAndAnimation(t *testing.T) {
	b, _ := newTestBoard(t)
	records := []levels.Tile{
		{ID: "w0", Type: "waterfall", GX: 4, GY: 0},
		{ID: "w1", Type: "waterfall", GX: 4, GY: 1},
		{ID: "w2", Type: "waterfall", GX: 4, GY: 2},
		{ID: "g", Type: "grass", GX: 4, GY: 3},
	}
	if _, err := b.Tiles.LoadTiles(records); err != nil {
		t.Fatalf("load: %v", err)
	}

	chain := b.Tiles.CascadeChain(grid.Cell{X: 4, Y: 1}, "")
	if len(chain) != 3 {
		t.Fatalf("chain length %d", len(chain))
	}
	for i, want := range []string{"w2", "w1", "w0"} {
		if chain[i].ID != want {
			t.Fatalf("chain[%d] = %s want %s", i, chain[i].ID, want)
		}
	}
	if got := b.Tiles.CascadeChain(grid.Cell{X: 4, Y: 3}, ""); got != nil {
		t.Fatalf("grass should not cascade, got %d", len(got))
	}
	if b.Tiles.Animating() != 1 {
		t.Fatalf("chain should share one timer, got %d", b.Tiles.Animating())
	}

	frames := chain[0].Tile.Def.Frames()
	b.Tick(150 * time.Millisecond)
	for i, e := range chain {
		want := frames[(1+i)%len(frames)]
		if got := e.Visual.(*rendertest.Visual).Frame; got != want {
			t.Fatalf("member %d frame %q want %q", i, got, want)
		}
	}

	// breaking the column splits the chain
	if !b.Remove(chain[1]) {
		t.Fatalf("remove middle")
	}
	if got := b.Tiles.CascadeChain(grid.Cell{X: 4, Y: 0}, ""); len(got) != 1 {
		t.Fatalf("top piece chain length %d", len(got))
	}
}

func TestSingleAnimatedTileCyclesFrames(t *testing.T) {
	b, _ := newTestBoard(t)
	e := b.PlaceTile(grid.Cell{}, "water")
	if err := e.Apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if b.Tiles.Animating() != 1 {
		t.Fatalf("water should animate")
	}
	v := e.Placed().Visual.(*rendertest.Visual)
	before := len(v.Frames)
	b.Tick(399 * time.Millisecond)
	if len(v.Frames) != before {
		t.Fatalf("frame advanced before the delay")
	}
	b.Tick(time.Millisecond)
	if len(v.Frames) != before+1 {
		t.Fatalf("frame did not advance at the delay")
	}
	b.Tick(800 * time.Millisecond)
	if len(v.Frames) != before+3 {
		t.Fatalf("expected two more frames, got %d", len(v.Frames)-before)
	}

	if err := e.Revert(); err != nil {
		t.Fatalf("revert: %v", err)
	}
	if b.Tiles.Animating() != 0 {
		t.Fatalf("timer should stop with its last tile")
	}
}

func TestBoxSelectUsesTileCenters(t *testing.T) {
	b, _ := newTestBoard(t)
	s := command.NewStack(0)
	a := paint(t, b, s, grid.Cell{X: 0}, "grass").Placed()
	c := paint(t, b, s, grid.Cell{X: 1}, "grass").Placed()
	paint(t, b, s, grid.Cell{X: 3, Y: 3}, "grass")

	// edge touches the center of (1,0) exactly
	picked := b.Tiles.BoxSelect(common.RectFromCorners(0, 0, 48, 16))
	if len(picked) != 2 || picked[0] != a || picked[1] != c {
		t.Fatalf("picked %v", picked)
	}
	if !a.Selected() || a.Visual.Depth() != render.DepthHover {
		t.Fatalf("selected tile should be lifted to the hover depth")
	}

	// a box covering a tile but not its center picks nothing
	picked = b.Tiles.BoxSelect(common.RectFromCorners(100, 100, 110, 110))
	if len(picked) != 0 || a.Selected() {
		t.Fatalf("box select should replace the selection")
	}
	if a.Visual.Depth() != render.DepthTiles {
		t.Fatalf("deselected tile depth %d", a.Visual.Depth())
	}
}

func TestCharacterBoxSelection(t *testing.T) {
	b, _ := newTestBoard(t)
	knight := b.PlaceCharacter("knight", grid.Cell{X: 0, Y: 0}, "")
	slime := b.PlaceCharacter("slime", grid.Cell{X: 5, Y: 5}, "")
	for _, cmd := range []*PlaceCharacter{knight, slime} {
		if err := cmd.Apply(); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	var seen [][]*Entity
	b.Characters.Subscribe(func(sel []*Entity) { seen = append(seen, sel) })

	start := common.RectFromCorners(10, 10, 20, 20)
	b.Characters.HandleSelection(interaction.SelectionEvent{Phase: interaction.SelectionStart, Rect: &start})
	if b.Characters.IsSelected(knight.Placed()) {
		t.Fatalf("start must not select")
	}

	b.Characters.HandleSelection(interaction.SelectionEvent{Phase: interaction.SelectionEnd, Rect: &start})
	if !b.Characters.IsSelected(knight.Placed()) || b.Characters.IsSelected(slime.Placed()) {
		t.Fatalf("only the knight overlaps the box")
	}
	if last := seen[len(seen)-1]; len(last) != 1 || last[0] != knight.Placed() {
		t.Fatalf("listener saw %v", last)
	}

	// touching the body edge is not an overlap
	edge := common.RectFromCorners(32, 0, 40, 10)
	b.Characters.HandleSelection(interaction.SelectionEvent{Phase: interaction.SelectionEnd, Rect: &edge})
	if b.Characters.IsSelected(knight.Placed()) {
		t.Fatalf("edge contact should deselect")
	}

	b.Characters.Select([]*Entity{knight.Placed(), slime.Placed()}, false)
	b.Characters.HandleSelection(interaction.SelectionEvent{Phase: interaction.SelectionClear})
	if len(b.Characters.Selected()) != 0 {
		t.Fatalf("clear should deselect all")
	}
}

func TestBoardQueries(t *testing.T) {
	b, surface := newTestBoard(t)
	s := command.NewStack(0)
	paint(t, b, s, grid.Cell{X: 1, Y: 1}, "grass")
	paint(t, b, s, grid.Cell{X: 0, Y: 1}, "dirt")
	paint(t, b, s, grid.Cell{X: 2, Y: 0}, "stone")
	if err := s.Execute(b.PlaceCharacter("knight", grid.Cell{X: 5}, "")); err != nil {
		t.Fatalf("character: %v", err)
	}

	ents := b.Entities()
	if len(ents) != 4 || ents[0].Cell != (grid.Cell{X: 2, Y: 0}) {
		t.Fatalf("entities not row-major: %v", ents)
	}
	recs := b.Records()
	if len(recs) != 3 {
		t.Fatalf("records should skip characters, got %d", len(recs))
	}
	if e, ok := b.At(grid.Cell{X: 0, Y: 1}); !ok || e.TypeID() != "dirt" {
		t.Fatalf("At returned %v %v", e, ok)
	}

	b.Clear()
	if b.Occupancy.Len() != 0 || len(surface.Live(render.SpriteTile)) != 0 || len(surface.Live(render.SpriteCharacter)) != 0 {
		t.Fatalf("clear left entities behind")
	}
}
