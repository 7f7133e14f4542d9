package scene

import "github.com/milk9111/gridpaint/grid"

type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Pointer is a pointer event in screen pixels relative to the canvas.
type Pointer struct {
	ScreenX, ScreenY float64
	Button           Button
}

type Key uint8

const (
	KeyUnknown Key = iota
	KeyZ
	KeyY
	KeyDelete
	KeyBackspace
	Key1
	Key2
	Key3
	Key4
	KeySpace
	KeyEscape
)

type KeyEvent struct {
	Key   Key
	Ctrl  bool
	Shift bool
	// Down is false for a release.
	Down bool
}

// GridStatus is what the footer shows.
type GridStatus struct {
	Center grid.Cell
	Cursor grid.Cell
	Zoom   float64
}
