package scene

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/gridpaint/command"
	"github.com/milk9111/gridpaint/grid"
	"github.com/milk9111/gridpaint/interaction"
	"github.com/milk9111/gridpaint/levels"
	"github.com/milk9111/gridpaint/placement"
	"github.com/milk9111/gridpaint/script"
)

var ErrEmptySelection = errors.New("scene: no tiles selected")

// Snapshot returns the current document in save form.
func (c *Controller) Snapshot() levels.SaveFile {
	return levels.New(c.board.Records())
}

// Load replaces the document. The save is validated in full first; a bad
// save leaves the board and history untouched.
func (c *Controller) Load(save levels.SaveFile) error {
	if err := save.Validate(c.board.Registry.Tiles.Has); err != nil {
		return fmt.Errorf("scene: load: %w", err)
	}

	c.reset()
	created, err := c.board.Tiles.LoadTiles(save.Tiles)
	if err != nil {
		return fmt.Errorf("scene: load: %w", err)
	}
	log.Printf("scene: loaded %d tiles", len(created))
	return nil
}

// Clear starts an empty document.
func (c *Controller) Clear() {
	c.reset()
}

func (c *Controller) reset() {
	c.resetGesture()
	c.hideHover()
	c.board.Clear()
	c.svc.ClearSelection(interaction.SourceUI)
	if err := c.svc.ClearHistory(); err != nil {
		log.Printf("scene: clear history: %v", err)
	}
}

// CopySelection encodes the selected tiles as a save fragment whose cells are
// relative to the selection's top-left cell.
func (c *Controller) CopySelection() ([]byte, error) {
	sel := c.board.Tiles.Selected()
	if len(sel) == 0 {
		return nil, ErrEmptySelection
	}
	cells := make([]grid.Cell, len(sel))
	for i, e := range sel {
		cells[i] = e.Cell
	}
	lo, _, _ := grid.Bounds(cells)

	recs := make([]levels.Tile, 0, len(sel))
	for _, e := range sel {
		rec, ok := e.Record()
		if !ok {
			continue
		}
		rec.ID = ""
		rec.GX -= lo.X
		rec.GY -= lo.Y
		recs = append(recs, rec)
	}

	var buf bytes.Buffer
	if err := levels.Encode(&buf, levels.New(recs)); err != nil {
		return nil, fmt.Errorf("scene: copy: %w", err)
	}
	return buf.Bytes(), nil
}

// Paste places a fragment produced by CopySelection with its top-left cell at
// at, as one undoable step, and selects the pasted tiles.
func (c *Controller) Paste(data []byte, at grid.Cell) error {
	frag, err := levels.DecodeBytes(data)
	if err != nil {
		return fmt.Errorf("scene: paste: %w", err)
	}
	if err := frag.Validate(c.board.Registry.Tiles.Has); err != nil {
		return fmt.Errorf("scene: paste: %w", err)
	}
	if len(frag.Tiles) == 0 {
		return nil
	}

	c.resetGesture()
	comp := command.NewComposite("Paste Tiles")
	places := make([]*placement.PlaceTile, 0, len(frag.Tiles))
	for _, rec := range frag.Tiles {
		rec.GX += at.X
		rec.GY += at.Y
		p := c.board.PlaceRecord(rec)
		places = append(places, p)
		comp.Add(p)
	}
	if err := c.svc.ExecuteCommand(comp); err != nil {
		return fmt.Errorf("scene: paste: %w", err)
	}

	pasted := make([]*placement.Entity, 0, len(places))
	for _, p := range places {
		if e := p.Placed(); e != nil {
			pasted = append(pasted, e)
		}
	}
	c.board.Tiles.SetSelection(pasted)
	log.Printf("scene: pasted %d tiles at %s", len(pasted), at)
	return nil
}

// RunScript runs a tengo macro with the cursor cell as its origin and applies
// what it places as one undoable step. It returns the number of tiles placed.
func (c *Controller) RunScript(ctx context.Context, src []byte) (int, error) {
	env := script.Env{
		Cursor:       c.cursor,
		SelectedTile: c.state.SelectedTile,
		Tiles:        c.board.Registry.Tiles.IDs(),
		Has: func(cell grid.Cell) bool {
			_, ok := c.board.At(cell)
			return ok
		},
	}
	placements, err := script.Run(ctx, src, env)
	if err != nil {
		return 0, err
	}
	if len(placements) == 0 {
		return 0, nil
	}

	c.resetGesture()
	comp := command.NewComposite("Run Script")
	for _, p := range placements {
		comp.Add(c.board.PlaceTile(p.Cell, p.Type))
	}
	if err := c.svc.ExecuteCommand(comp); err != nil {
		return 0, fmt.Errorf("scene: run script: %w", err)
	}
	return len(placements), nil
}
