// Package occupancy tracks which entity sits in which grid cell.
package occupancy

import (
	"iter"

	"github.com/milk9111/gridpaint/grid"
)

// Map is a sparse cell -> occupant store for a single layer. Occupants are
// kept densely packed so iteration does not walk a hash map.
type Map[T any] struct {
	cells  []grid.Cell
	values []T
	index  map[grid.Cell]int
}

func NewMap[T any]() *Map[T] {
	return &Map[T]{index: make(map[grid.Cell]int)}
}

// Has returns true if the cell is occupied.
func (m *Map[T]) Has(c grid.Cell) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[c]
	return ok
}

// Get returns the occupant of c.
func (m *Map[T]) Get(c grid.Cell) (T, bool) {
	var zero T
	if m == nil {
		return zero, false
	}
	idx, ok := m.index[c]
	if !ok {
		return zero, false
	}
	return m.values[idx], true
}

// Set stores v at c, replacing any occupant. Callers check Has first.
func (m *Map[T]) Set(c grid.Cell, v T) {
	if m == nil {
		return
	}
	if m.index == nil {
		m.index = make(map[grid.Cell]int)
	}
	if idx, ok := m.index[c]; ok {
		m.values[idx] = v
		return
	}
	m.cells = append(m.cells, c)
	m.values = append(m.values, v)
	m.index[c] = len(m.cells) - 1
}

// Delete removes the occupant of c if present.
func (m *Map[T]) Delete(c grid.Cell) {
	if m == nil {
		return
	}
	idx, ok := m.index[c]
	if !ok {
		return
	}
	last := len(m.cells) - 1
	lastCell := m.cells[last]

	m.cells[idx] = m.cells[last]
	m.values[idx] = m.values[last]
	m.index[lastCell] = idx

	var zero T
	m.values[last] = zero
	m.cells = m.cells[:last]
	m.values = m.values[:last]
	delete(m.index, c)
}

func (m *Map[T]) Clear() {
	if m == nil {
		return
	}
	clear(m.index)
	clear(m.values)
	m.cells = m.cells[:0]
	m.values = m.values[:0]
}

func (m *Map[T]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.cells)
}

// All yields every (cell, occupant) pair. Mutating the map while iterating is
// not supported; collect with Values first.
func (m *Map[T]) All() iter.Seq2[grid.Cell, T] {
	return func(yield func(grid.Cell, T) bool) {
		if m == nil {
			return
		}
		for i, c := range m.cells {
			if !yield(c, m.values[i]) {
				return
			}
		}
	}
}

// Values returns a snapshot of the occupants.
func (m *Map[T]) Values() []T {
	if m == nil {
		return nil
	}
	out := make([]T, len(m.values))
	copy(out, m.values)
	return out
}
