package scene

import (
	"github.com/milk9111/gridpaint/command"
	"github.com/milk9111/gridpaint/common"
	"github.com/milk9111/gridpaint/grid"
	"github.com/milk9111/gridpaint/placement"
	"github.com/milk9111/gridpaint/render"
)

// Gesture is the pointer interaction in progress. The controller holds
// exactly one at a time.
type Gesture interface {
	gesture()
}

type Idle struct{}

// Painting is a Create-tool stroke. Each cell is applied as soon as the
// pointer enters it and the whole stroke is recorded as one step on release.
type Painting struct {
	Stroke  *command.Composite
	Last    grid.Cell
	painted bool
}

type Panning struct {
	LastX, LastY float64
}

type Zooming struct {
	StartY    float64
	StartZoom float64
}

// BoxSelecting is anchored at a world point.
type BoxSelecting struct {
	StartX, StartY float64
	rect           render.Visual
}

type point struct{ X, Y float64 }

// DraggingGroup moves the visuals of Members rigidly with the pointer until
// release, when the drag is quantized to whole cells.
type DraggingGroup struct {
	Kind       placement.Kind
	Members    []*placement.Entity
	Primary    *placement.Entity
	StartPos   map[*placement.Entity]point
	StartCells map[*placement.Entity]grid.Cell
	GrabX      float64
	GrabY      float64
}

func (Idle) gesture()           {}
func (*Painting) gesture()      {}
func (*Panning) gesture()       {}
func (*Zooming) gesture()       {}
func (*BoxSelecting) gesture()  {}
func (*DraggingGroup) gesture() {}

func newDraggingGroup(primary *placement.Entity, members []*placement.Entity, wx, wy float64) *DraggingGroup {
	g := &DraggingGroup{
		Kind:       primary.Kind,
		Members:    members,
		Primary:    primary,
		StartPos:   make(map[*placement.Entity]point, len(members)),
		StartCells: make(map[*placement.Entity]grid.Cell, len(members)),
		GrabX:      wx,
		GrabY:      wy,
	}
	for _, m := range members {
		x, y := m.Anchor()
		if m.Visual != nil {
			x, y = m.Visual.Position()
		}
		g.StartPos[m] = point{x, y}
		g.StartCells[m] = m.Cell
	}
	return g
}

func (g *DraggingGroup) follow(dx, dy float64) {
	for _, m := range g.Members {
		if m.Visual == nil {
			continue
		}
		p := g.StartPos[m]
		m.Visual.SetPosition(p.X+dx, p.Y+dy)
	}
}

func (g *DraggingGroup) snapBack() {
	for _, m := range g.Members {
		m.Snap()
	}
}

// stale reports whether a member changed cell since the drag began.
func (g *DraggingGroup) stale() bool {
	for _, m := range g.Members {
		if m.Cell != g.StartCells[m] {
			return true
		}
	}
	return false
}

func (g *BoxSelecting) show(r common.Rect) {
	g.rect.SetPosition(r.X, r.Y)
	g.rect.SetSize(r.Width, r.Height)
}
