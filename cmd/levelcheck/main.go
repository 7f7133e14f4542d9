// Command levelcheck validates scene files against a tile registry by
// replaying them onto a headless board.
//
//	levelcheck [-assets dir] [-json] [-w] file...
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/milk9111/gridpaint/levels"
	"github.com/milk9111/gridpaint/placement"
	"github.com/milk9111/gridpaint/registry"
	"github.com/milk9111/gridpaint/render/rendertest"
)

type report struct {
	Path      string         `json:"path"`
	Tiles     int            `json:"tiles"`
	Types     map[string]int `json:"types,omitempty"`
	Animating int            `json:"animating"`
	Rewritten bool           `json:"rewritten,omitempty"`
	Err       string         `json:"error,omitempty"`
}

func main() {
	log.SetFlags(0)
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("levelcheck: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("levelcheck", flag.ContinueOnError)
	assetsDir := fs.String("assets", "", "Directory holding tiles.yaml and characters.yaml (built-in registry if empty)")
	asJSON := fs.Bool("json", false, "Print reports as JSON")
	rewrite := fs.Bool("w", false, "Rewrite valid files in canonical order")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("no scene files given")
	}

	set, err := registry.Load(ctx, registry.DefaultSource(*assetsDir))
	if err != nil {
		return err
	}

	reports := make([]report, fs.NArg())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range fs.Args() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = check(set, path, *rewrite)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeReports(out, reports, *asJSON); err != nil {
		return err
	}
	failed := 0
	for _, r := range reports {
		if r.Err != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(reports))
	}
	return nil
}

// check decodes path, validates it against set and loads it onto a fresh
// headless board the way the editor would.
func check(set *registry.Set, path string, rewrite bool) report {
	r := report{Path: path}
	save, err := levels.ReadFile(path)
	if err != nil {
		r.Err = err.Error()
		return r
	}
	r.Tiles = len(save.Tiles)
	if err := save.Validate(set.Tiles.Has); err != nil {
		r.Err = err.Error()
		return r
	}

	board := placement.NewBoard(set, rendertest.NewSurface(), placement.Options{})
	tiles, err := board.Tiles.LoadTiles(save.Tiles)
	if err != nil {
		r.Err = err.Error()
		return r
	}
	r.Types = make(map[string]int)
	for _, e := range tiles {
		r.Types[e.TypeID()]++
	}
	r.Animating = board.Tiles.Animating()

	if rewrite {
		if err := levels.WriteFile(path, levels.New(board.Records())); err != nil {
			r.Err = err.Error()
			return r
		}
		r.Rewritten = true
	}
	return r
}

func writeReports(out io.Writer, reports []report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, r := range reports {
		if r.Err != "" {
			fmt.Fprintf(out, "FAIL %s: %s\n", r.Path, r.Err)
			continue
		}
		fmt.Fprintf(out, "ok   %s: %d tiles, %d animating\n", r.Path, r.Tiles, r.Animating)
		for _, t := range slices.Sorted(maps.Keys(r.Types)) {
			fmt.Fprintf(out, "       %-16s %d\n", t, r.Types[t])
		}
	}
	return nil
}
