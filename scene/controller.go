// Package scene turns raw pointer, wheel and key input into editor gestures
// and commands. It owns the camera, the hover previews and the gesture state
// machine; everything persistent lives on the placement board.
package scene

import (
	"image/color"
	"log"
	"time"

	"github.com/milk9111/gridpaint/command"
	"github.com/milk9111/gridpaint/common"
	"github.com/milk9111/gridpaint/grid"
	"github.com/milk9111/gridpaint/interaction"
	"github.com/milk9111/gridpaint/placement"
	"github.com/milk9111/gridpaint/registry"
	"github.com/milk9111/gridpaint/render"
)

const (
	// dragZoomRate is the zoom change per screen pixel of vertical drag.
	dragZoomRate = 0.005
	// WheelZoomStep is the zoom change per wheel notch.
	WheelZoomStep = 0.1

	previewAlpha = 0.35
)

var selectionBoxColor = color.RGBA{R: 0x0a, G: 0x1e, B: 0x33, A: 0x33}

type Controller struct {
	board   *placement.Board
	svc     *interaction.Service
	surface render.Surface
	camera  *Camera

	state   interaction.State
	gesture Gesture

	preview    render.Visual
	previewKey string
	hovered    *placement.Entity
	cursor     grid.Cell

	onStatus func(GridStatus)
	unsubs   []func()
}

// New wires a controller to the board and the interaction service. Character
// selection follows the service's box-selection stream from here on.
func New(board *placement.Board, svc *interaction.Service, surface render.Surface, camera *Camera) *Controller {
	c := &Controller{
		board:   board,
		svc:     svc,
		surface: surface,
		camera:  camera,
		gesture: Idle{},
	}
	c.unsubs = append(c.unsubs,
		svc.Subscribe(c.onState),
		svc.SubscribeSelection(board.Characters.HandleSelection),
	)
	return c
}

// Close detaches the controller from the interaction service and drops its
// preview visual.
func (c *Controller) Close() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
	if c.preview != nil {
		c.preview.Destroy()
		c.preview = nil
	}
}

func (c *Controller) Board() *placement.Board           { return c.board }
func (c *Controller) Interaction() *interaction.Service { return c.svc }
func (c *Controller) Camera() *Camera                   { return c.camera }
func (c *Controller) Gesture() Gesture                  { return c.gesture }
func (c *Controller) Cursor() grid.Cell                 { return c.cursor }

// OnStatus sets the callback that receives grid status on pointer moves,
// pans and zooms.
func (c *Controller) OnStatus(fn func(GridStatus)) {
	c.onStatus = fn
	c.emitStatus()
}

func (c *Controller) onState(st interaction.State) {
	prev := c.state.EffectiveTool()
	c.state = st
	if st.EffectiveTool() != prev {
		c.resetGesture()
		c.hideHover()
	}
}

// resetGesture abandons whatever is in progress. A paint stroke keeps what it
// already painted and is recorded; a drag snaps back.
func (c *Controller) resetGesture() {
	switch g := c.gesture.(type) {
	case *Painting:
		c.commitStroke(g)
	case *DraggingGroup:
		g.snapBack()
	case *BoxSelecting:
		g.rect.Destroy()
	case *Panning, *Zooming, Idle:
	}
	c.gesture = Idle{}
}

func (c *Controller) world(p Pointer) (float64, float64, grid.Cell) {
	wx, wy := c.camera.ScreenToWorld(p.ScreenX, p.ScreenY)
	return wx, wy, grid.FromWorld(wx, wy)
}

func (c *Controller) PointerDown(p Pointer) {
	wx, wy, cell := c.world(p)
	c.cursor = cell

	if p.Button == ButtonRight {
		c.removeAt(cell)
		return
	}
	if p.Button != ButtonLeft {
		return
	}
	c.resetGesture()

	switch c.state.EffectiveTool() {
	case interaction.ToolCreate:
		switch {
		case c.state.IsPlacingTile():
			g := &Painting{Stroke: command.NewComposite("Paint Tiles")}
			c.gesture = g
			c.paintCell(g, cell)
		case c.state.IsPlacingCharacter():
			cmd := c.board.PlaceCharacter(c.state.SelectedCharacter, cell, "")
			if err := c.svc.ExecuteCommand(cmd); err != nil {
				log.Printf("scene: place character at %s: %v", cell, err)
			}
		}
	case interaction.ToolPan:
		c.gesture = &Panning{LastX: p.ScreenX, LastY: p.ScreenY}
	case interaction.ToolZoom:
		c.gesture = &Zooming{StartY: p.ScreenY, StartZoom: c.camera.Zoom}
	case interaction.ToolMove:
		if hit, ok := c.board.At(cell); ok {
			c.beginDrag(hit, wx, wy)
			return
		}
		c.beginBoxSelect(wx, wy)
	}
}

func (c *Controller) PointerMove(p Pointer) {
	wx, wy, cell := c.world(p)

	switch g := c.gesture.(type) {
	case *Panning:
		c.camera.Pan(p.ScreenX-g.LastX, p.ScreenY-g.LastY)
		g.LastX, g.LastY = p.ScreenX, p.ScreenY
		wx, wy, cell = c.world(p)
	case *Zooming:
		c.camera.SetZoom(g.StartZoom * (1 - (p.ScreenY-g.StartY)*dragZoomRate))
		wx, wy, cell = c.world(p)
	case *Painting:
		c.paintCell(g, cell)
	case *DraggingGroup:
		g.follow(wx-g.GrabX, wy-g.GrabY)
	case *BoxSelecting:
		r := common.RectFromCorners(g.StartX, g.StartY, wx, wy)
		g.show(r)
		c.svc.UpdateSelection(r, interaction.SourceMouse)
	case Idle:
	}

	c.cursor = cell
	c.updateHover(cell)
	c.emitStatus()
}

// PointerUp ends the gesture started by the last PointerDown.
func (c *Controller) PointerUp(p Pointer) {
	c.release(p)
}

// PointerUpOutside is a release that happened off the canvas. The world point
// is still derived from the screen position through the camera.
func (c *Controller) PointerUpOutside(p Pointer) {
	c.release(p)
}

func (c *Controller) release(p Pointer) {
	wx, wy, _ := c.world(p)

	switch g := c.gesture.(type) {
	case *Painting:
		c.commitStroke(g)
	case *BoxSelecting:
		g.rect.Destroy()
		r := common.RectFromCorners(g.StartX, g.StartY, wx, wy)
		picked := c.board.Tiles.BoxSelect(r)
		c.svc.EndSelection(r, interaction.SourceMouse)
		log.Printf("scene: box selected %d tiles", len(picked))
	case *DraggingGroup:
		c.endDrag(g, wx, wy)
	case Idle:
		if p.Button == ButtonLeft && c.state.EffectiveTool() == interaction.ToolMove {
			c.board.Tiles.ClearSelection()
			c.svc.ClearSelection(interaction.SourceMouse)
		}
	case *Panning, *Zooming:
	}
	c.gesture = Idle{}
	c.emitStatus()
}

// PointerLeave hides every hover affordance.
func (c *Controller) PointerLeave() {
	c.hideHover()
}

// Wheel zooms by notches; positive zooms in.
func (c *Controller) Wheel(notches float64) {
	c.ZoomBy(notches * WheelZoomStep)
}

func (c *Controller) ZoomBy(delta float64) {
	c.camera.ZoomBy(delta)
	c.emitStatus()
}

// ResetView recenters on the origin at zoom 1.
func (c *Controller) ResetView() {
	c.camera.Reset()
	c.emitStatus()
}

func (c *Controller) Key(ev KeyEvent) {
	if !ev.Down {
		if ev.Key == KeySpace {
			c.svc.EndTransientTool(interaction.ToolPan, interaction.SourceKeyboard)
		}
		return
	}

	switch {
	case ev.Ctrl && ev.Key == KeyZ && ev.Shift, ev.Ctrl && ev.Key == KeyY:
		c.Redo()
	case ev.Ctrl && ev.Key == KeyZ:
		c.Undo()
	case ev.Key == KeyDelete, ev.Key == KeyBackspace:
		c.DeleteSelection()
	case ev.Key >= Key1 && ev.Key <= Key4:
		c.svc.SetBaseTool(interaction.Tool(ev.Key-Key1), interaction.SourceKeyboard)
	case ev.Key == KeySpace:
		if t := c.state.TransientTool; t == nil || *t != interaction.ToolPan {
			c.svc.BeginTransientTool(interaction.ToolPan, interaction.SourceKeyboard)
		}
	case ev.Key == KeyEscape:
		c.resetGesture()
		c.board.Tiles.ClearSelection()
		c.svc.ClearSelection(interaction.SourceKeyboard)
	}
}

func (c *Controller) Undo() {
	c.resetGesture()
	c.hideHover()
	if err := c.svc.Undo(); err != nil {
		log.Printf("scene: undo: %v", err)
	}
}

func (c *Controller) Redo() {
	c.resetGesture()
	c.hideHover()
	if err := c.svc.Redo(); err != nil {
		log.Printf("scene: redo: %v", err)
	}
}

// DeleteSelection removes every selected tile and character. Like the
// right-click delete it is not recorded in the history.
func (c *Controller) DeleteSelection() {
	c.resetGesture()
	sel := c.board.Selection()
	for _, e := range sel {
		if e == c.hovered {
			c.hovered = nil
		}
		c.board.Remove(e)
	}
	if len(sel) > 0 {
		log.Printf("scene: deleted %d selected entities", len(sel))
	}
}

// Tick advances editor animation.
func (c *Controller) Tick(dt time.Duration) {
	c.board.Tick(dt)
}

func (c *Controller) removeAt(cell grid.Cell) {
	hit, ok := c.board.At(cell)
	if !ok {
		return
	}
	if hit == c.hovered {
		c.hovered = nil
	}
	if c.board.Remove(hit) {
		log.Printf("scene: removed %s", hit)
	}
}

func (c *Controller) paintCell(g *Painting, cell grid.Cell) {
	if g.painted && g.Last == cell {
		return
	}
	g.Last, g.painted = cell, true

	cmd := c.board.PlaceTile(cell, c.state.SelectedTile)
	if err := cmd.Apply(); err != nil {
		log.Printf("scene: paint %s: %v", cell, err)
		return
	}
	g.Stroke.Add(cmd)
}

func (c *Controller) commitStroke(g *Painting) {
	if g.Stroke.IsEmpty() {
		return
	}
	if err := c.svc.RecordCommand(g.Stroke); err != nil {
		log.Printf("scene: record stroke: %v", err)
	}
}

func (c *Controller) beginDrag(hit *placement.Entity, wx, wy float64) {
	members := []*placement.Entity{hit}
	if c.board.IsSelected(hit) {
		members = c.board.SelectedOfKind(hit.Kind)
	}
	c.gesture = newDraggingGroup(hit, members, wx, wy)
}

func (c *Controller) endDrag(g *DraggingGroup, wx, wy float64) {
	delta := grid.QuantizeDelta(wx-g.GrabX, wy-g.GrabY)
	switch {
	case delta.IsZero():
		g.snapBack()
		return
	case g.stale():
		g.snapBack()
		log.Printf("scene: drag abandoned, members moved underneath it")
		return
	case !placement.CanMoveGroup(c.board.Occupancy, g.Members, delta):
		g.snapBack()
		log.Printf("scene: move by %s blocked", delta)
		return
	}
	move := placement.MoveGroup(c.board.Occupancy, c.board, g.Members, delta)
	if err := c.svc.ExecuteCommand(move); err != nil {
		g.snapBack()
		log.Printf("scene: %s: %v", move.Label(), err)
	}
}

func (c *Controller) beginBoxSelect(wx, wy float64) {
	rect := c.surface.Spawn(render.Sprite{
		Kind:   render.SpriteSelectionBox,
		Color:  selectionBoxColor,
		Width:  1,
		Height: 1,
	})
	rect.SetDepth(render.DepthHUD)
	g := &BoxSelecting{StartX: wx, StartY: wy, rect: rect}
	r := common.RectFromCorners(wx, wy, wx, wy)
	g.show(r)
	c.gesture = g
	c.svc.BeginSelection(r, interaction.SourceMouse)
}

func (c *Controller) updateHover(cell grid.Cell) {
	switch c.state.EffectiveTool() {
	case interaction.ToolCreate:
		c.setHovered(nil)
		switch {
		case c.state.IsPlacingTile():
			c.showPreview(placement.KindTile, c.state.SelectedTile, cell)
		case c.state.IsPlacingCharacter():
			c.showPreview(placement.KindCharacter, c.state.SelectedCharacter, cell)
		default:
			c.hidePreview()
		}
	case interaction.ToolMove:
		c.hidePreview()
		if _, idle := c.gesture.(Idle); !idle {
			return
		}
		hit, _ := c.board.At(cell)
		c.setHovered(hit)
	default:
		c.hideHover()
	}
}

func (c *Controller) setHovered(e *placement.Entity) {
	if c.hovered == e {
		return
	}
	if c.hovered != nil {
		c.hovered.SetHovered(false)
	}
	c.hovered = e
	if e != nil {
		e.SetHovered(true)
	}
}

func (c *Controller) showPreview(kind placement.Kind, id string, cell grid.Cell) {
	key := kind.String() + ":" + id
	if c.preview == nil || c.previewKey != key {
		if c.preview != nil {
			c.preview.Destroy()
			c.preview = nil
		}
		sp, ok := c.previewSprite(kind, id)
		if !ok {
			c.previewKey = ""
			return
		}
		c.preview = c.surface.Spawn(sp)
		c.preview.SetDepth(render.DepthHover)
		c.previewKey = key
	}
	switch kind {
	case placement.KindTile:
		c.preview.SetPosition(grid.ToWorld(cell))
	case placement.KindCharacter:
		c.preview.SetPosition(grid.CharacterAnchor(cell))
	}
	c.preview.SetVisible(true)
}

func (c *Controller) previewSprite(kind placement.Kind, id string) (render.Sprite, bool) {
	switch kind {
	case placement.KindTile:
		def, err := c.board.Registry.Tiles.Lookup(id)
		if err != nil {
			return render.Sprite{}, false
		}
		return render.Sprite{
			Kind:   render.SpriteHoverTile,
			Color:  def.Color.WithAlpha(previewAlpha),
			Width:  grid.Size,
			Height: grid.Size,
			Scale:  1,
		}, true
	case placement.KindCharacter:
		def, err := c.board.Registry.Characters.Lookup(id)
		if err != nil {
			return render.Sprite{}, false
		}
		return render.Sprite{
			Kind:         render.SpriteHoverCharacter,
			Image:        def.Headshot(registry.FacingLeft),
			Color:        def.Color.WithAlpha(previewAlpha),
			Width:        grid.Size,
			Height:       grid.Size,
			AnchorBottom: true,
			Scale:        def.Scale,
		}, true
	default:
		return render.Sprite{}, false
	}
}

func (c *Controller) hidePreview() {
	if c.preview != nil {
		c.preview.SetVisible(false)
	}
}

func (c *Controller) hideHover() {
	c.hidePreview()
	c.setHovered(nil)
}

func (c *Controller) emitStatus() {
	if c.onStatus == nil {
		return
	}
	c.onStatus(GridStatus{
		Center: c.camera.Center(),
		Cursor: c.cursor,
		Zoom:   c.camera.Zoom,
	})
}
