package occupancy

import (
	"math/rand/v2"
	"testing"

	"github.com/milk9111/gridpaint/grid"
)

func TestMapBasicOps(t *testing.T) {
	m := NewMap[string]()
	c := grid.Cell{X: 2, Y: -3}
	if m.Has(c) {
		t.Fatalf("empty map should not contain %v", c)
	}
	m.Set(c, "a")
	if v, ok := m.Get(c); !ok || v != "a" {
		t.Fatalf("Get = %q,%v", v, ok)
	}
	m.Set(c, "b")
	if v, _ := m.Get(c); v != "b" || m.Len() != 1 {
		t.Fatalf("Set should overwrite, got %q len %d", v, m.Len())
	}
	m.Delete(c)
	if m.Has(c) || m.Len() != 0 {
		t.Fatalf("Delete left occupant behind")
	}
	m.Delete(c)
}

func TestMapDeleteKeepsIndexConsistent(t *testing.T) {
	m := NewMap[int]()
	for i := 0; i < 5; i++ {
		m.Set(grid.Cell{X: i}, i)
	}
	m.Delete(grid.Cell{X: 1})
	m.Delete(grid.Cell{X: 0})
	for i := 2; i < 5; i++ {
		v, ok := m.Get(grid.Cell{X: i})
		if !ok || v != i {
			t.Fatalf("cell %d: got %d,%v", i, v, ok)
		}
	}
	seen := 0
	for c, v := range m.All() {
		if c.X != v {
			t.Fatalf("iteration pair mismatch %v -> %d", c, v)
		}
		seen++
	}
	if seen != 3 {
		t.Fatalf("expected 3 occupants, saw %d", seen)
	}
}

func TestMapNilSafe(t *testing.T) {
	var m *Map[int]
	if m.Has(grid.Cell{}) || m.Len() != 0 {
		t.Fatalf("nil map should be empty")
	}
	m.Delete(grid.Cell{})
	m.Clear()
	for range m.All() {
		t.Fatalf("nil map should not yield")
	}
}

func TestLayeredSetRefusesOccupied(t *testing.T) {
	l := NewLayered[string]()
	c := grid.Cell{X: 1, Y: 1}
	if !l.Set(c, "first", "") {
		t.Fatalf("first set should succeed")
	}
	if l.Set(c, "second", DefaultLayer) {
		t.Fatalf("second set should fail on occupied cell")
	}
	if v, _ := l.Get(c, ""); v != "first" {
		t.Fatalf("occupant overwritten: %q", v)
	}
	if l.CanPlace(c, "") {
		t.Fatalf("CanPlace should be false for occupied cell")
	}
}

func TestLayersAreIndependent(t *testing.T) {
	l := NewLayered[string]()
	c := grid.Cell{}
	l.Set(c, "tile", DefaultLayer)
	if !l.Set(c, "prop", "props") {
		t.Fatalf("a different layer should accept the same cell")
	}
	l.ClearLayer("props")
	if l.Has(c, "props") || !l.Has(c, DefaultLayer) {
		t.Fatalf("ClearLayer touched the wrong layer")
	}

	var ids []LayerID
	for id := range l.Layers() {
		ids = append(ids, id)
	}
	if len(ids) != 2 || ids[0] != DefaultLayer || ids[1] != "props" {
		t.Fatalf("unexpected layer order %v", ids)
	}
}

func TestLayerLookupMissing(t *testing.T) {
	l := NewLayered[int]()
	if l.Layer("nope") != nil {
		t.Fatalf("unknown layer should be nil")
	}
	if l.Has(grid.Cell{}, "nope") {
		t.Fatalf("unknown layer should report empty")
	}
	l.Delete(grid.Cell{}, "nope")
}

// Random set/delete sequences never leave two occupants on one cell.
func TestLayeredExclusivity(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	l := NewLayered[int]()
	owner := map[grid.Cell]int{}

	for i := 0; i < 2000; i++ {
		c := grid.Cell{X: r.IntN(6), Y: r.IntN(6)}
		if r.IntN(3) == 0 {
			l.Delete(c, "")
			delete(owner, c)
			continue
		}
		ok := l.Set(c, i, "")
		_, had := owner[c]
		if ok == had {
			t.Fatalf("step %d: Set returned %v with prior occupant %v", i, ok, had)
		}
		if ok {
			owner[c] = i
		}
		if l.Default().Len() != len(owner) {
			t.Fatalf("step %d: len %d, want %d", i, l.Default().Len(), len(owner))
		}
	}
	for c, want := range owner {
		if got, _ := l.Get(c, ""); got != want {
			t.Fatalf("cell %v: got %d want %d", c, got, want)
		}
	}
}
