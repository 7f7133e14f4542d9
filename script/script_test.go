package script

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/gridpaint/grid"
)

var testTiles = []string{"grass", "dirt", "stone"}

func TestRunPlacesTiles(t *testing.T) {
	src := `
for x := 0; x < 3; x++ {
	place(selected_tile, cursor.x + x, cursor.y)
}
`
	got, err := Run(context.Background(), []byte(src), Env{
		Cursor:       grid.Cell{X: 4, Y: -1},
		SelectedTile: "dirt",
		Tiles:        testTiles,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []Placement{
		{Type: "dirt", Cell: grid.Cell{X: 4, Y: -1}},
		{Type: "dirt", Cell: grid.Cell{X: 5, Y: -1}},
		{Type: "dirt", Cell: grid.Cell{X: 6, Y: -1}},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d placements want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("placement %d = %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestRunSeesOccupancyAndQueue(t *testing.T) {
	src := `
if !has(0, 0) { place("grass", 0, 0) }
if !has(1, 0) { place("grass", 1, 0) }
if !has(1, 0) { place("stone", 1, 0) }
`
	occupied := map[grid.Cell]bool{{X: 0, Y: 0}: true}
	got, err := Run(context.Background(), []byte(src), Env{
		Tiles: testTiles,
		Has:   func(c grid.Cell) bool { return occupied[c] },
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(got) != 1 || got[0].Cell != (grid.Cell{X: 1}) || got[0].Type != "grass" {
		t.Fatalf("unexpected placements %+v", got)
	}
}

func TestRunLaterPlacementWins(t *testing.T) {
	src := `place("grass", 2, 2); place("stone", 2, 2)`
	got, err := Run(context.Background(), []byte(src), Env{Tiles: testTiles})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(got) != 1 || got[0].Type != "stone" {
		t.Fatalf("unexpected placements %+v", got)
	}
}

func TestRunIteratesTileIDs(t *testing.T) {
	src := `
for i, id in tiles {
	place(id, i, 0)
}
`
	got, err := Run(context.Background(), []byte(src), Env{Tiles: testTiles})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(got) != len(testTiles) || got[2].Type != "stone" {
		t.Fatalf("unexpected placements %+v", got)
	}
}

func TestRunErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{name: "unknown tile", src: `place("lava", 0, 0)`, want: "unknown tile"},
		{name: "bad arity", src: `place("grass", 0)`, want: "wrong number of arguments"},
		{name: "bad coordinate", src: `place("grass", "left", 0)`, want: "invalid type for argument 'x'"},
		{name: "compile", src: `place(`, want: "Parse Error"},
		{name: "os is not importable", src: `os := import("os")`, want: "module 'os' not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Run(context.Background(), []byte(tc.src), Env{Tiles: testTiles})
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := Run(ctx, []byte(`for { }`), Env{Tiles: testTiles})
	if err == nil {
		t.Fatalf("expected the endless loop to be cut off")
	}
}

func TestRunPlacementLimit(t *testing.T) {
	src := `for x := 0; x < 10000; x++ { place("grass", x, 0) }`
	_, err := Run(context.Background(), []byte(src), Env{Tiles: testTiles})
	if err == nil || !strings.Contains(err.Error(), ErrTooManyPlacements.Error()) {
		t.Fatalf("expected placement limit error, got %v", err)
	}
}
