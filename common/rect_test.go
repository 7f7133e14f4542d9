package common

import "testing"

func TestRectFromCornersNormalizes(t *testing.T) {
	r := RectFromCorners(10, 40, -10, 0)
	if r.X != 0 || r.Y != 20 || r.Width != 20 || r.Height != 40 {
		t.Fatalf("unexpected rect %+v", r)
	}
	x0, y0 := r.Min()
	x1, y1 := r.Max()
	if x0 != -10 || y0 != 0 || x1 != 10 || y1 != 40 {
		t.Fatalf("unexpected bounds (%v,%v)-(%v,%v)", x0, y0, x1, y1)
	}
}

func TestRectContainsPointInclusive(t *testing.T) {
	r := RectFromCorners(0, 0, 32, 32)
	cases := []struct {
		x, y float64
		want bool
	}{
		{16, 16, true},
		{0, 0, true},
		{32, 32, true},
		{32.5, 16, false},
		{-1, 16, false},
	}
	for _, c := range cases {
		if got := r.ContainsPoint(c.x, c.y); got != c.want {
			t.Errorf("ContainsPoint(%v,%v) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestRectOverlapsIsStrict(t *testing.T) {
	a := RectFromCorners(0, 0, 10, 10)
	if !a.Overlaps(RectFromCorners(5, 5, 15, 15)) {
		t.Fatalf("expected overlap")
	}
	if a.Overlaps(RectFromCorners(10, 0, 20, 10)) {
		t.Fatalf("touching edges should not overlap")
	}
}

func TestRectExpand(t *testing.T) {
	r := RectFromCorners(0, 0, 0, 0).Expand(4, -6)
	if r.Width != 4 || r.Height != 6 {
		t.Fatalf("unexpected expanded rect %+v", r)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0.25, 4) != 4 || Clamp(0.1, 0.25, 4) != 0.25 || Clamp(1, 0.25, 4) != 1 {
		t.Fatalf("clamp failed")
	}
}

func TestApproach(t *testing.T) {
	if got := Approach(0, 10, 3); got != 3 {
		t.Fatalf("Approach up = %v", got)
	}
	if got := Approach(10, 0, 3); got != 7 {
		t.Fatalf("Approach down = %v", got)
	}
	if got := Approach(9, 10, 3); got != 10 {
		t.Fatalf("Approach snap = %v", got)
	}
}
