package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/gridpaint/config"
	"github.com/milk9111/gridpaint/prefs"
)

func main() {
	configPath := flag.String("config", "gridpaint.yaml", "Optional YAML editor config")
	assetsDir := flag.String("dir", "", "Directory holding tiles.yaml, characters.yaml and images (overrides config)")
	sceneName := flag.String("level", "", "Scene to open at startup: a file path or the name of a bundled sample")
	scenesDir := flag.String("scenes", "", "Directory Save and Save As write into (overrides config)")
	watch := flag.Bool("watch", false, "Reload the registry when files in -dir change")
	undoLimit := flag.Int("undo", 0, "Undo history limit, 0 for unlimited (overrides config)")
	flag.Parse()

	log.Println("Editor starting...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("editor: %v; using defaults", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.AssetsDir = *assetsDir
		case "scenes":
			cfg.ScenesDir = *scenesDir
		case "watch":
			cfg.Watch = *watch
		case "undo":
			cfg.UndoLimit = *undoLimit
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("editor: invalid options: %v", err)
	}

	app := NewApp(cfg, prefs.Open(), *sceneName)
	defer app.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("gridpaint")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(app); err != nil {
		log.Printf("editor: %v", err)
	}
}
