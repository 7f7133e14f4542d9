package occupancy

import (
	"iter"

	"github.com/milk9111/gridpaint/grid"
)

// LayerID names an independent occupancy namespace.
type LayerID string

// DefaultLayer always exists. The empty id resolves to it.
const DefaultLayer LayerID = "default"

// Layered is a set of named occupancy maps. Conflicts are only checked within
// a layer.
type Layered[T any] struct {
	layers map[LayerID]*Map[T]
	order  []LayerID
}

func NewLayered[T any]() *Layered[T] {
	l := &Layered[T]{layers: make(map[LayerID]*Map[T])}
	l.EnsureLayer(DefaultLayer)
	return l
}

func resolve(id LayerID) LayerID {
	if id == "" {
		return DefaultLayer
	}
	return id
}

// EnsureLayer returns the layer, creating it if needed.
func (l *Layered[T]) EnsureLayer(id LayerID) *Map[T] {
	id = resolve(id)
	if m, ok := l.layers[id]; ok {
		return m
	}
	m := NewMap[T]()
	l.layers[id] = m
	l.order = append(l.order, id)
	return m
}

// Layer returns the named layer or nil when it does not exist.
func (l *Layered[T]) Layer(id LayerID) *Map[T] {
	return l.layers[resolve(id)]
}

func (l *Layered[T]) Default() *Map[T] {
	return l.layers[DefaultLayer]
}

func (l *Layered[T]) Has(c grid.Cell, id LayerID) bool {
	return l.Layer(id).Has(c)
}

func (l *Layered[T]) Get(c grid.Cell, id LayerID) (T, bool) {
	return l.Layer(id).Get(c)
}

// CanPlace reports whether c is free in the layer.
func (l *Layered[T]) CanPlace(c grid.Cell, id LayerID) bool {
	return !l.Has(c, id)
}

// Set places v at c and returns false, leaving the occupant untouched, when
// the cell is already taken in that layer.
func (l *Layered[T]) Set(c grid.Cell, v T, id LayerID) bool {
	m := l.EnsureLayer(id)
	if m.Has(c) {
		return false
	}
	m.Set(c, v)
	return true
}

func (l *Layered[T]) Delete(c grid.Cell, id LayerID) {
	l.Layer(id).Delete(c)
}

func (l *Layered[T]) ClearLayer(id LayerID) {
	l.Layer(id).Clear()
}

// Clear empties every layer but keeps them registered.
func (l *Layered[T]) Clear() {
	for _, id := range l.order {
		l.layers[id].Clear()
	}
}

// Layers yields every layer in creation order, default first.
func (l *Layered[T]) Layers() iter.Seq2[LayerID, *Map[T]] {
	return func(yield func(LayerID, *Map[T]) bool) {
		for _, id := range l.order {
			if !yield(id, l.layers[id]) {
				return
			}
		}
	}
}

// Len counts occupants across all layers.
func (l *Layered[T]) Len() int {
	n := 0
	for _, m := range l.layers {
		n += m.Len()
	}
	return n
}
