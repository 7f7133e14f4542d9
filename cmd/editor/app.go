package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.design/x/clipboard"

	"github.com/milk9111/gridpaint/canvas"
	"github.com/milk9111/gridpaint/command"
	"github.com/milk9111/gridpaint/config"
	"github.com/milk9111/gridpaint/interaction"
	"github.com/milk9111/gridpaint/placement"
	"github.com/milk9111/gridpaint/prefs"
	"github.com/milk9111/gridpaint/registry"
	"github.com/milk9111/gridpaint/scene"
)

const messageDuration = 4 * time.Second

// App is the ebiten.Game for the editor. Until the registry has loaded it
// only draws a loading screen and ignores input.
type App struct {
	cfg          config.Config
	prefs        *prefs.Manager
	initialScene string

	ctx     context.Context
	cancel  context.CancelFunc
	boot    <-chan registry.Result
	bootErr error

	set    *registry.Set
	camera *scene.Camera
	canvas *canvas.Canvas
	svc    *interaction.Service
	board  *placement.Board
	ctrl   *scene.Controller

	ui      *editorUI
	prompt  *Prompt
	watcher *registry.Watcher

	clipboardOK  bool
	clipboardMem []byte

	savePath     string
	status       scene.GridStatus
	message      string
	messageUntil time.Time

	width, height int
	pointer       pointerState
}

func NewApp(cfg config.Config, p *prefs.Manager, initialScene string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	camera := scene.NewCamera(float64(cfg.Window.Width), float64(cfg.Window.Height))
	camera.MinZoom, camera.MaxZoom = cfg.ZoomMin, cfg.ZoomMax
	camera.SetZoom(p.Prefs().Zoom)

	a := &App{
		cfg:          cfg,
		prefs:        p,
		initialScene: initialScene,
		ctx:          ctx,
		cancel:       cancel,
		boot:         registry.LoadAsync(ctx, registry.DefaultSource(cfg.AssetsDir)),
		camera:       camera,
		prompt:       NewPrompt(),
		width:        cfg.Window.Width,
		height:       cfg.Window.Height,
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("editor: system clipboard unavailable, copy/paste stays in-process: %v", err)
	} else {
		a.clipboardOK = true
	}
	return a
}

// Close cancels boot, stops the watcher and persists preferences.
func (a *App) Close() {
	a.cancel()
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Printf("editor: close watcher: %v", err)
		}
		a.watcher = nil
	}
	if a.svc != nil {
		a.prefs.SetView(a.camera.Zoom, a.svc.State().BaseTool.String())
	}
	if a.canvas != nil {
		a.prefs.SetShowGrid(a.canvas.ShowGrid)
	}
	if err := a.prefs.Save(); err != nil {
		log.Printf("editor: save prefs: %v", err)
	}
}

func (a *App) pollBoot() {
	select {
	case res := <-a.boot:
		a.boot = nil
		if res.Err != nil {
			if errors.Is(res.Err, context.Canceled) {
				return
			}
			a.bootErr = res.Err
			log.Printf("editor: load registry: %v", res.Err)
			return
		}
		a.start(res.Set)
	default:
	}
}

func (a *App) start(set *registry.Set) {
	a.set = set
	a.canvas = canvas.New(set.Source, a.camera)
	a.canvas.ShowGrid = a.prefs.Prefs().ShowGrid
	a.svc = interaction.NewService(command.NewStack(a.cfg.UndoLimit))
	a.ui = buildEditorUI(a.svc, set, a.onAction)
	a.svc.SubscribeCommands(a.ui.toolbar.SetCommands)
	a.svc.Subscribe(a.ui.toolbar.SetState)
	a.attach(set)

	if t, err := interaction.ParseTool(a.prefs.Prefs().BaseTool); err == nil {
		a.svc.SetBaseTool(t, interaction.SourceUI)
	}
	if ids := set.Tiles.IDs(); len(ids) > 0 {
		a.ui.palette.Select(placement.KindTile, ids[0])
	}
	if a.initialScene != "" {
		a.open(a.initialScene)
	}
	if a.cfg.Watch && a.cfg.AssetsDir != "" {
		w, err := registry.NewWatcher(a.cfg.AssetsDir)
		if err != nil {
			log.Printf("editor: watch %s: %v", a.cfg.AssetsDir, err)
		} else {
			a.watcher = w
			log.Printf("editor: watching %s for registry changes", a.cfg.AssetsDir)
		}
	}
}

// attach builds a board and controller over set, sharing the interaction
// service and camera.
func (a *App) attach(set *registry.Set) {
	a.board = placement.NewBoard(set, a.canvas, placement.Options{ViewHistory: a.cfg.ViewHistory})
	a.ctrl = scene.New(a.board, a.svc, a.canvas, a.camera)
	a.ctrl.OnStatus(func(s scene.GridStatus) { a.status = s })
}

// reload swaps in a freshly loaded registry, carrying the current document
// over. The undo history does not survive a reload.
func (a *App) reload() {
	set, err := registry.Load(a.ctx, registry.DefaultSource(a.cfg.AssetsDir))
	if err != nil {
		a.notify("registry reload failed: %v", err)
		return
	}
	snap := a.ctrl.Snapshot()
	if err := snap.Validate(set.Tiles.Has); err != nil {
		a.notify("registry reload rejected, scene no longer fits it: %v", err)
		return
	}

	a.ctrl.Clear()
	a.ctrl.Close()
	a.canvas.Compact()
	a.canvas.SetSource(set.Source)
	a.set = set
	a.attach(set)
	if err := a.ctrl.Load(snap); err != nil {
		a.notify("reload: %v", err)
		return
	}
	a.ui.palette.SetEntries(set)
	a.notify("registry reloaded: %d tiles, %d characters", set.Tiles.Len(), set.Characters.Len())
}

func (a *App) drainWatcher() {
	if a.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case name, ok := <-a.watcher.Events:
			if !ok {
				a.watcher = nil
				return
			}
			log.Printf("editor: %s changed", name)
			changed = true
			continue
		case err, ok := <-a.watcher.Errors:
			if !ok {
				a.watcher = nil
				return
			}
			log.Printf("editor: watcher: %v", err)
			continue
		default:
		}
		break
	}
	if changed {
		a.reload()
	}
}

func (a *App) Update() error {
	if a.set == nil {
		a.pollBoot()
		return nil
	}
	a.drainWatcher()
	dt := time.Second / time.Duration(ebiten.TPS())

	if a.prompt.Update() {
		return nil
	}
	a.ui.Update()
	if !a.ui.typing() {
		a.handleShortcuts()
		a.handleKeys()
	}
	a.handlePointer()

	a.ctrl.Tick(dt)
	a.canvas.Update(dt)
	a.ui.SetStatus(a.statusLine())
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.set == nil {
		msg := "Loading..."
		if a.bootErr != nil {
			msg = "Failed to load registry: " + a.bootErr.Error()
		}
		ebitenutil.DebugPrintAt(screen, msg, 16, 16)
		return
	}
	a.canvas.Draw(screen)
	a.ui.Draw(screen)
	a.prompt.Draw(screen, a.ui.face)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.camera.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

func (a *App) notify(format string, args ...any) {
	a.message = fmt.Sprintf(format, args...)
	a.messageUntil = time.Now().Add(messageDuration)
	log.Printf("editor: %s", a.message)
}

func (a *App) statusLine() string {
	name := a.savePath
	if name == "" {
		name = "untitled"
	}
	line := fmt.Sprintf("%s   center %s   cursor %s   zoom %.0f%%   %s",
		name, a.status.Center, a.status.Cursor, a.status.Zoom*100, a.svc.State().EffectiveTool())
	if a.message != "" && time.Now().Before(a.messageUntil) {
		line += "   " + a.message
	}
	return line
}

// onAction runs toolbar buttons that are not tool selections.
func (a *App) onAction(act action) {
	switch act {
	case actionUndo:
		a.ctrl.Undo()
	case actionRedo:
		a.ctrl.Redo()
	case actionSave:
		a.save()
	case actionOpen:
		a.promptOpen()
	case actionNew:
		a.newDocument()
	case actionResetView:
		a.ctrl.ResetView()
	}
}
