package prefs

import (
	"fmt"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

func openTestStore(t *testing.T, name string) *gdata.Manager {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	store, err := gdata.Open(gdata.Config{AppName: name})
	if err != nil {
		t.Fatalf("open gdata: %v", err)
	}
	return store
}

func TestMemoryOnlyMode(t *testing.T) {
	m := NewManager(nil)
	if m.Persistent() {
		t.Fatalf("nil store should not persist")
	}
	if got := m.Prefs(); got.Zoom != 1 || got.BaseTool != "create" || !got.ShowGrid {
		t.Fatalf("unexpected defaults %+v", got)
	}
	m.AddRecent("a.json")
	if err := m.Save(); err != nil {
		t.Fatalf("save in memory mode: %v", err)
	}
	if got := m.Prefs().RecentFiles; len(got) != 1 {
		t.Fatalf("recent files %v", got)
	}
}

func TestAddRecent(t *testing.T) {
	m := NewManager(nil)
	for i := range MaxRecent + 3 {
		m.AddRecent(fmt.Sprintf("scene%d.json", i))
	}
	m.AddRecent("scene5.json")
	m.AddRecent("")

	got := m.Prefs().RecentFiles
	if len(got) != MaxRecent {
		t.Fatalf("len = %d want %d", len(got), MaxRecent)
	}
	if got[0] != "scene5.json" || got[1] != fmt.Sprintf("scene%d.json", MaxRecent+2) {
		t.Fatalf("unexpected order %v", got)
	}
	seen := map[string]bool{}
	for _, p := range got {
		if seen[p] {
			t.Fatalf("duplicate %q in %v", p, got)
		}
		seen[p] = true
	}

	// the returned slice is a copy
	got[0] = "mutated"
	if m.Prefs().RecentFiles[0] != "scene5.json" {
		t.Fatalf("Prefs leaked its slice")
	}
}

func TestSetViewClampsZoom(t *testing.T) {
	m := NewManager(nil)
	m.SetView(10, "move")
	if p := m.Prefs(); p.Zoom != 4 || p.BaseTool != "move" {
		t.Fatalf("got %+v", p)
	}
	m.SetView(0.01, "")
	if p := m.Prefs(); p.Zoom != 0.25 || p.BaseTool != "move" {
		t.Fatalf("got %+v", p)
	}
}

func TestSaveAndReload(t *testing.T) {
	store := openTestStore(t, "gridpaint_test_prefs")

	m1 := NewManager(store)
	if !m1.Persistent() {
		t.Fatalf("store should persist")
	}
	m1.AddRecent("levels/a.json")
	m1.SetLastSaveName("a.json")
	m1.SetView(2, "pan")
	m1.SetShowGrid(false)
	if err := m1.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	m2 := NewManager(store)
	p := m2.Prefs()
	if len(p.RecentFiles) != 1 || p.RecentFiles[0] != "levels/a.json" {
		t.Fatalf("recent files %v", p.RecentFiles)
	}
	if p.LastSaveName != "a.json" || p.Zoom != 2 || p.BaseTool != "pan" || p.ShowGrid {
		t.Fatalf("reloaded %+v", p)
	}
}

func TestLoadCorruptFallsBack(t *testing.T) {
	store := openTestStore(t, "gridpaint_test_corrupt")
	if err := store.SaveObjectProp(prefsObject, prefsProperty, []byte("zoom: [not a number")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	m := NewManager(store)
	if p := m.Prefs(); p.Zoom != 1 || p.BaseTool != "create" {
		t.Fatalf("expected defaults, got %+v", p)
	}
	if err := m.Load(); err == nil {
		t.Fatalf("expected decode error")
	}
}
