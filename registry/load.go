package registry

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
)

// Set is everything the editor needs resolved before it accepts input.
type Set struct {
	Tiles      *Tiles
	Characters *Characters
	Source     Source
}

// Load reads both registries concurrently. The context is checked after every
// read so a torn-down boot does not publish a stale result.
func Load(ctx context.Context, src Source) (*Set, error) {
	var (
		tiles *Tiles
		chars *Characters
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		name, data, err := src.ReadFirst(TileFiles...)
		if err != nil {
			return err
		}
		if err := gctx.Err(); err != nil {
			return err
		}
		t, err := DecodeTiles(name, data)
		if err != nil {
			return fmt.Errorf("registry: tiles: %w", err)
		}
		tiles = t
		return nil
	})
	g.Go(func() error {
		name, data, err := src.ReadFirst(CharacterFiles...)
		if err != nil {
			return err
		}
		if err := gctx.Err(); err != nil {
			return err
		}
		c, err := DecodeCharacters(name, data)
		if err != nil {
			return fmt.Errorf("registry: characters: %w", err)
		}
		chars = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, id := range chars.IDs() {
		if tiles.Has(id) {
			return nil, fmt.Errorf("registry: id %q is both a tile and a character", id)
		}
	}

	log.Printf("registry: loaded %d tiles, %d characters", tiles.Len(), chars.Len())
	return &Set{Tiles: tiles, Characters: chars, Source: src}, nil
}

// Result is delivered by LoadAsync.
type Result struct {
	Set *Set
	Err error
}

// LoadAsync runs Load on a goroutine and delivers exactly one result. A
// cancelled context yields a result carrying the context error.
func LoadAsync(ctx context.Context, src Source) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		set, err := Load(ctx, src)
		out <- Result{Set: set, Err: err}
	}()
	return out
}
