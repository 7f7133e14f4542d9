package canvas

import (
	"errors"
	"testing"
	"time"

	"github.com/milk9111/gridpaint/render"
	"github.com/milk9111/gridpaint/scene"
)

type noImages struct{ reads int }

func (s *noImages) ReadFile(name string) ([]byte, error) {
	s.reads++
	return nil, errors.New("not found")
}

func TestSpawnDefaultsAndDepthOrder(t *testing.T) {
	c := New(nil, scene.NewCamera(800, 600))
	hover := c.Spawn(render.Sprite{Kind: render.SpriteHoverTile, Width: 32, Height: 32})
	tile := c.Spawn(render.Sprite{Kind: render.SpriteTile, Width: 32, Height: 32})
	hover.SetDepth(render.DepthHover)
	tile.SetDepth(render.DepthTiles)

	if got := hover.(*visual).sprite.Scale; got != 1 {
		t.Fatalf("default scale = %v", got)
	}
	if c.sorted {
		t.Fatalf("depth change should mark the list unsorted")
	}

	c.sort()
	if c.visuals[0] != tile.(*visual) {
		t.Fatalf("tiles should draw before hover previews")
	}
}

func TestDestroyRestoreAndCompact(t *testing.T) {
	c := New(nil, scene.NewCamera(800, 600))
	a := c.Spawn(render.Sprite{Kind: render.SpriteTile})
	b := c.Spawn(render.Sprite{Kind: render.SpriteTile})

	a.Destroy()
	if a.Alive() || c.Len() != 1 {
		t.Fatalf("destroy should hide the visual")
	}
	a.Restore()
	if !a.Alive() || c.Len() != 2 {
		t.Fatalf("restore should bring back the same visual")
	}

	b.Destroy()
	c.Compact()
	if len(c.visuals) != 1 || c.visuals[0] != a.(*visual) || c.visuals[0].seq != 0 {
		t.Fatalf("compact kept %d visuals", len(c.visuals))
	}
}

func TestHighlightEases(t *testing.T) {
	c := New(nil, scene.NewCamera(800, 600))
	v := c.Spawn(render.Sprite{Kind: render.SpriteTile}).(*visual)

	v.SetHighlight(render.HighlightSelected)
	c.Update(50 * time.Millisecond)
	if v.glow <= 0 || v.glow >= 1 {
		t.Fatalf("glow after one step = %v", v.glow)
	}
	c.Update(time.Second)
	if v.glow != 1 {
		t.Fatalf("glow should settle at 1, got %v", v.glow)
	}
	v.SetHighlight(render.HighlightNone)
	c.Update(time.Second)
	if v.glow != 0 {
		t.Fatalf("glow should fade out, got %v", v.glow)
	}
}

func TestMissingImagesAreCachedAsMissing(t *testing.T) {
	src := &noImages{}
	c := New(src, scene.NewCamera(800, 600))
	for range 3 {
		if img := c.frameImage("tiles/grass/default.png"); img != nil {
			t.Fatalf("expected no image")
		}
	}
	if src.reads != 1 {
		t.Fatalf("missing image read %d times", src.reads)
	}
	c.SetSource(src)
	c.frameImage("tiles/grass/default.png")
	if src.reads != 2 {
		t.Fatalf("SetSource should drop the missing cache")
	}
}
