package grid

import "testing"

func TestToWorldIsCellCenter(t *testing.T) {
	cases := []struct {
		cell   Cell
		wx, wy float64
	}{
		{Cell{0, 0}, 16, 16},
		{Cell{1, 2}, 48, 80},
		{Cell{-1, -1}, -16, -16},
	}
	for _, c := range cases {
		x, y := ToWorld(c.cell)
		if x != c.wx || y != c.wy {
			t.Errorf("ToWorld(%v) = (%v,%v), want (%v,%v)", c.cell, x, y, c.wx, c.wy)
		}
		if back := FromWorld(x, y); back != c.cell {
			t.Errorf("FromWorld(ToWorld(%v)) = %v", c.cell, back)
		}
	}
}

func TestFromWorldFloorsNegative(t *testing.T) {
	if got := FromWorld(-0.5, -31.9); got != (Cell{-1, -1}) {
		t.Fatalf("got %v", got)
	}
	if got := FromWorld(31.99, 0); got != (Cell{0, 0}) {
		t.Fatalf("got %v", got)
	}
}

func TestCellKeyRoundTrip(t *testing.T) {
	for _, c := range []Cell{{0, 0}, {-3, 7}, {120, -44}} {
		got, err := ParseCell(c.String())
		if err != nil {
			t.Fatalf("ParseCell(%q): %v", c.String(), err)
		}
		if got != c {
			t.Fatalf("round trip %v -> %v", c, got)
		}
	}
	if _, err := ParseCell("nope"); err == nil {
		t.Fatalf("expected error for malformed key")
	}
}

func TestQuantizeDelta(t *testing.T) {
	cases := []struct {
		dx, dy float64
		want   Cell
	}{
		{0, 0, Cell{0, 0}},
		{15.9, -15.9, Cell{0, 0}},
		{16, -16, Cell{1, 0}},
		{64, 70, Cell{2, 2}},
		{-40, 0, Cell{-1, 0}},
	}
	for _, c := range cases {
		if got := QuantizeDelta(c.dx, c.dy); got != c.want {
			t.Errorf("QuantizeDelta(%v,%v) = %v, want %v", c.dx, c.dy, got, c.want)
		}
	}
}

func TestCharacterAnchor(t *testing.T) {
	x, y := CharacterAnchor(Cell{0, 0})
	if x != 16 || y != 32 {
		t.Fatalf("got (%v,%v)", x, y)
	}
}

func TestBounds(t *testing.T) {
	lo, hi, ok := Bounds([]Cell{{2, 3}, {-1, 5}, {4, 0}})
	if !ok || lo != (Cell{-1, 0}) || hi != (Cell{4, 5}) {
		t.Fatalf("got %v %v %v", lo, hi, ok)
	}
	if _, _, ok := Bounds(nil); ok {
		t.Fatalf("expected no bounds for empty input")
	}
}
