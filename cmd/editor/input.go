package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/gridpaint/scene"
)

// pointerState remembers which buttons went down over the canvas so their
// release is delivered even when it happens over the chrome or off-window.
type pointerState struct {
	down   map[scene.Button]bool
	lastX  int
	lastY  int
	inside bool
}

var mouseButtons = []struct {
	ebiten ebiten.MouseButton
	scene  scene.Button
}{
	{ebiten.MouseButtonLeft, scene.ButtonLeft},
	{ebiten.MouseButtonRight, scene.ButtonRight},
	{ebiten.MouseButtonMiddle, scene.ButtonMiddle},
}

var sceneKeys = map[ebiten.Key]scene.Key{
	ebiten.KeyZ:         scene.KeyZ,
	ebiten.KeyY:         scene.KeyY,
	ebiten.KeyDelete:    scene.KeyDelete,
	ebiten.KeyBackspace: scene.KeyBackspace,
	ebiten.KeyDigit1:    scene.Key1,
	ebiten.KeyDigit2:    scene.Key2,
	ebiten.KeyDigit3:    scene.Key3,
	ebiten.KeyDigit4:    scene.Key4,
	ebiten.KeySpace:     scene.KeySpace,
	ebiten.KeyEscape:    scene.KeyEscape,
}

func ctrlHeld() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

func shiftHeld() bool {
	return ebiten.IsKeyPressed(ebiten.KeyShift)
}

func (a *App) anyDown() bool {
	for _, d := range a.pointer.down {
		if d {
			return true
		}
	}
	return false
}

func (a *App) handlePointer() {
	if a.pointer.down == nil {
		a.pointer.down = make(map[scene.Button]bool)
	}
	mx, my := ebiten.CursorPosition()
	onWindow := mx >= 0 && my >= 0 && mx < a.width && my < a.height
	overCanvas := onWindow && !a.ui.covers(mx, my)
	p := scene.Pointer{ScreenX: float64(mx), ScreenY: float64(my)}

	for _, b := range mouseButtons {
		p.Button = b.scene
		if inpututil.IsMouseButtonJustPressed(b.ebiten) && overCanvas {
			a.pointer.down[b.scene] = true
			a.ctrl.PointerDown(p)
		}
		if inpututil.IsMouseButtonJustReleased(b.ebiten) && a.pointer.down[b.scene] {
			a.pointer.down[b.scene] = false
			if overCanvas {
				a.ctrl.PointerUp(p)
			} else {
				a.ctrl.PointerUpOutside(p)
			}
		}
	}

	moved := mx != a.pointer.lastX || my != a.pointer.lastY
	a.pointer.lastX, a.pointer.lastY = mx, my
	switch {
	case moved && (overCanvas || a.anyDown()):
		a.ctrl.PointerMove(p)
	case !overCanvas && a.pointer.inside && !a.anyDown():
		a.ctrl.PointerLeave()
	}
	a.pointer.inside = overCanvas

	if overCanvas {
		if _, wy := ebiten.Wheel(); wy != 0 {
			a.ctrl.Wheel(wy)
		}
	}
}

// handleKeys forwards the keys the scene controller understands.
func (a *App) handleKeys() {
	ctrl, shift := ctrlHeld(), shiftHeld()
	for k, sk := range sceneKeys {
		switch {
		case inpututil.IsKeyJustPressed(k):
			a.ctrl.Key(scene.KeyEvent{Key: sk, Ctrl: ctrl, Shift: shift, Down: true})
		case inpututil.IsKeyJustReleased(k):
			a.ctrl.Key(scene.KeyEvent{Key: sk, Ctrl: ctrl, Shift: shift})
		}
	}
}

// handleShortcuts covers the file, clipboard and view shortcuts that live
// outside the scene.
func (a *App) handleShortcuts() {
	if ctrlHeld() {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyS) && shiftHeld():
			a.promptSaveAs()
		case inpututil.IsKeyJustPressed(ebiten.KeyS):
			a.save()
		case inpututil.IsKeyJustPressed(ebiten.KeyO):
			a.promptOpen()
		case inpututil.IsKeyJustPressed(ebiten.KeyN):
			a.newDocument()
		case inpututil.IsKeyJustPressed(ebiten.KeyC):
			a.copySelection()
		case inpututil.IsKeyJustPressed(ebiten.KeyV):
			a.paste()
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			a.promptScript()
		}
		return
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		a.canvas.ShowGrid = !a.canvas.ShowGrid
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit0), inpututil.IsKeyJustPressed(ebiten.KeyHome):
		a.ctrl.ResetView()
	}
}
