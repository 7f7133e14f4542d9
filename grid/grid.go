// Package grid maps integer grid cells to world space and back.
package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Size is the edge length of one cell in world pixels.
const Size = 32

const half = Size / 2

// Cell is a coordinate on the unbounded editor grid.
type Cell struct {
	X, Y int
}

func (c Cell) Add(o Cell) Cell { return Cell{X: c.X + o.X, Y: c.Y + o.Y} }
func (c Cell) Sub(o Cell) Cell { return Cell{X: c.X - o.X, Y: c.Y - o.Y} }
func (c Cell) IsZero() bool    { return c.X == 0 && c.Y == 0 }

// String is the canonical "gx,gy" key.
func (c Cell) String() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)
}

// ParseCell parses a "gx,gy" key.
func ParseCell(s string) (Cell, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Cell{}, fmt.Errorf("grid: parse cell %q: missing comma", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Cell{}, fmt.Errorf("grid: parse cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Cell{}, fmt.Errorf("grid: parse cell %q: %w", s, err)
	}
	return Cell{X: x, Y: y}, nil
}

// ToWorld returns the world position of the cell center.
func ToWorld(c Cell) (float64, float64) {
	return float64(c.X*Size + half), float64(c.Y*Size + half)
}

// FromWorld returns the cell containing a world point.
func FromWorld(x, y float64) Cell {
	return Cell{X: int(math.Floor(x / Size)), Y: int(math.Floor(y / Size))}
}

// CharacterAnchor is the bottom-center of a cell, where characters stand.
func CharacterAnchor(c Cell) (float64, float64) {
	x, y := ToWorld(c)
	return x, y + half
}

// QuantizeDelta rounds a world-pixel drag delta to whole cells.
func QuantizeDelta(dx, dy float64) Cell {
	return Cell{
		X: int(math.Floor(dx/Size + 0.5)),
		Y: int(math.Floor(dy/Size + 0.5)),
	}
}

// Bounds returns the min and max cell over a set of cells.
func Bounds(cells []Cell) (Cell, Cell, bool) {
	if len(cells) == 0 {
		return Cell{}, Cell{}, false
	}
	lo, hi := cells[0], cells[0]
	for _, c := range cells[1:] {
		lo.X = min(lo.X, c.X)
		lo.Y = min(lo.Y, c.Y)
		hi.X = max(hi.X, c.X)
		hi.Y = max(hi.Y, c.Y)
	}
	return lo, hi, true
}
