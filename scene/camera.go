package scene

import (
	"github.com/milk9111/gridpaint/common"
	"github.com/milk9111/gridpaint/grid"
)

// Default zoom range.
const (
	DefaultMinZoom = 0.25
	DefaultMaxZoom = 4
)

// Camera maps between screen pixels and world pixels. X and Y are the world
// point at the center of the viewport; zoom scales around that point.
type Camera struct {
	X, Y          float64
	Zoom          float64
	Width, Height float64
	MinZoom       float64
	MaxZoom       float64
}

// NewCamera returns a camera of the given viewport size looking at the origin
// cell at zoom 1.
func NewCamera(width, height float64) *Camera {
	c := &Camera{
		Width:   width,
		Height:  height,
		MinZoom: DefaultMinZoom,
		MaxZoom: DefaultMaxZoom,
	}
	c.Reset()
	return c
}

func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	return c.X + (sx-c.Width/2)/c.Zoom, c.Y + (sy-c.Height/2)/c.Zoom
}

func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	return (wx-c.X)*c.Zoom + c.Width/2, (wy-c.Y)*c.Zoom + c.Height/2
}

// Pan drags the view by a screen-space delta.
func (c *Camera) Pan(dx, dy float64) {
	c.X -= dx / c.Zoom
	c.Y -= dy / c.Zoom
}

func (c *Camera) SetZoom(z float64) {
	c.Zoom = common.Clamp(z, c.MinZoom, c.MaxZoom)
}

func (c *Camera) ZoomBy(delta float64) {
	c.SetZoom(c.Zoom + delta)
}

func (c *Camera) CenterOn(wx, wy float64) {
	c.X, c.Y = wx, wy
}

// Resize changes the viewport and keeps the same world point centered.
func (c *Camera) Resize(width, height float64) {
	c.Width, c.Height = width, height
}

// Reset returns to zoom 1 centered on the origin cell.
func (c *Camera) Reset() {
	c.Zoom = 1
	c.CenterOn(grid.ToWorld(grid.Cell{}))
}

// Center returns the cell under the middle of the viewport.
func (c *Camera) Center() grid.Cell {
	return grid.FromWorld(c.X, c.Y)
}

// Visible returns the world rectangle the viewport covers.
func (c *Camera) Visible() common.Rect {
	return common.Rect{X: c.X, Y: c.Y, Width: c.Width / c.Zoom, Height: c.Height / c.Zoom}
}
