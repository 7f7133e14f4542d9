package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"golang.design/x/clipboard"

	"github.com/milk9111/gridpaint/levels"
)

const scriptTimeout = 2 * time.Second

var errDialogUnavailable = errors.New("native file dialog unavailable; build with -tags dialog to enable")

// save writes to the current path, or to the last Save As name under the
// scenes directory when the document has never been saved.
func (a *App) save() {
	path := a.savePath
	if path == "" {
		path = filepath.Join(a.cfg.ScenesDir, levels.SaveAsName(a.prefs.Prefs().LastSaveName))
	}
	a.saveTo(path)
}

func (a *App) saveTo(path string) {
	snap := a.ctrl.Snapshot()
	if err := levels.WriteFile(path, snap); err != nil {
		a.notify("save failed: %v", err)
		return
	}
	a.savePath = path
	a.prefs.SetLastSaveName(filepath.Base(path))
	a.prefs.AddRecent(path)
	if err := a.prefs.Save(); err != nil {
		a.notify("saved %s, but prefs were not: %v", path, err)
		return
	}
	a.notify("saved %d tiles to %s", len(snap.Tiles), path)
}

func (a *App) promptSaveAs() {
	a.prompt.Open("Save as:", a.prefs.Prefs().LastSaveName, func(name string) {
		a.saveTo(filepath.Join(a.cfg.ScenesDir, levels.SaveAsName(name)))
	})
}

func (a *App) promptOpen() {
	path, err := openSceneDialog()
	if err == nil {
		a.open(path)
		return
	}
	if !errors.Is(err, errDialogUnavailable) {
		a.notify("open dialog: %v", err)
		return
	}
	initial := ""
	if recent := a.prefs.Prefs().RecentFiles; len(recent) > 0 {
		initial = recent[0]
	}
	a.prompt.Open("Open scene:", initial, a.open)
}

// open loads a scene from disk, falling back to a bundled sample of that
// name.
func (a *App) open(path string) {
	save, ok := levels.Open(path)
	onDisk := ok
	if !ok {
		var err error
		save, err = levels.LoadEmbedded(path)
		if err != nil {
			a.notify("cannot open %q", path)
			return
		}
	}
	if err := a.ctrl.Load(save); err != nil {
		a.notify("open %s: %v", path, err)
		return
	}
	a.canvas.Compact()
	if onDisk {
		a.savePath = path
		a.prefs.AddRecent(path)
	} else {
		a.savePath = ""
	}
	a.notify("opened %s: %d tiles", path, len(save.Tiles))
}

func (a *App) newDocument() {
	a.ctrl.Clear()
	a.canvas.Compact()
	a.savePath = ""
	a.notify("new scene")
}

func (a *App) copySelection() {
	data, err := a.ctrl.CopySelection()
	if err != nil {
		a.notify("copy: %v", err)
		return
	}
	a.clipboardMem = data
	if a.clipboardOK {
		clipboard.Write(clipboard.FmtText, data)
	}
	a.notify("copied selection")
}

func (a *App) paste() {
	data := a.clipboardMem
	if a.clipboardOK {
		if b := clipboard.Read(clipboard.FmtText); len(b) > 0 {
			data = b
		}
	}
	if len(data) == 0 {
		a.notify("clipboard is empty")
		return
	}
	if err := a.ctrl.Paste(data, a.ctrl.Cursor()); err != nil {
		a.notify("paste: %v", err)
	}
}

// promptScript asks for a tengo script file and runs it at the cursor.
func (a *App) promptScript() {
	a.prompt.Open("Run script:", "", func(path string) {
		src, err := os.ReadFile(path)
		if err != nil {
			a.notify("script: %v", err)
			return
		}
		ctx, cancel := context.WithTimeout(a.ctx, scriptTimeout)
		defer cancel()
		n, err := a.ctrl.RunScript(ctx, src)
		if err != nil {
			a.notify("script: %v", err)
			return
		}
		a.notify("script placed %d tiles", n)
	})
}
