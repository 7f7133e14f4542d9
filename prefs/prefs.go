// Package prefs persists per-user editor preferences across sessions.
package prefs

import (
	"fmt"
	"log"
	"slices"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/gridpaint/common"
)

// AppName names the gdata storage directory.
const AppName = "gridpaint"

// MaxRecent bounds the recent files list.
const MaxRecent = 8

const (
	prefsObject   = "editor"
	prefsProperty = "prefs"
)

type Prefs struct {
	RecentFiles  []string `yaml:"recentFiles"`
	LastSaveName string   `yaml:"lastSaveName"`
	Zoom         float64  `yaml:"zoom"`
	BaseTool     string   `yaml:"baseTool"`
	ShowGrid     bool     `yaml:"showGrid"`
}

func Defaults() Prefs {
	return Prefs{
		Zoom:     1,
		BaseTool: "create",
		ShowGrid: true,
	}
}

// Manager holds the loaded preferences. With a nil store it keeps them in
// memory only and Save is a no-op.
type Manager struct {
	store *gdata.Manager
	prefs Prefs
}

// Open opens the user's gdata store and loads saved preferences. Any failure
// falls back to defaults in memory-only mode.
func Open() *Manager {
	store, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("prefs: storage unavailable, not persisting: %v", err)
		store = nil
	}
	return NewManager(store)
}

func NewManager(store *gdata.Manager) *Manager {
	m := &Manager{store: store, prefs: Defaults()}
	if err := m.Load(); err != nil {
		log.Printf("prefs: using defaults: %v", err)
	}
	return m
}

// Load replaces the in-memory preferences with the stored ones. A missing
// document is not an error.
func (m *Manager) Load() error {
	if m.store == nil || !m.store.ObjectPropExists(prefsObject, prefsProperty) {
		m.prefs = Defaults()
		return nil
	}
	data, err := m.store.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		m.prefs = Defaults()
		return fmt.Errorf("prefs: load: %w", err)
	}
	p := Defaults()
	if err := yaml.Unmarshal(data, &p); err != nil {
		m.prefs = Defaults()
		return fmt.Errorf("prefs: decode: %w", err)
	}
	if p.Zoom <= 0 {
		p.Zoom = 1
	}
	if len(p.RecentFiles) > MaxRecent {
		p.RecentFiles = p.RecentFiles[:MaxRecent]
	}
	m.prefs = p
	return nil
}

func (m *Manager) Save() error {
	if m.store == nil {
		return nil
	}
	data, err := yaml.Marshal(m.prefs)
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}
	if err := m.store.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("prefs: save: %w", err)
	}
	return nil
}

// Persistent reports whether Save reaches disk.
func (m *Manager) Persistent() bool { return m.store != nil }

// Prefs returns a copy of the current preferences.
func (m *Manager) Prefs() Prefs {
	p := m.prefs
	p.RecentFiles = slices.Clone(p.RecentFiles)
	return p
}

// AddRecent moves path to the front of the recent list.
func (m *Manager) AddRecent(path string) {
	if path == "" {
		return
	}
	recent := slices.DeleteFunc(m.prefs.RecentFiles, func(p string) bool { return p == path })
	recent = slices.Insert(recent, 0, path)
	if len(recent) > MaxRecent {
		recent = recent[:MaxRecent]
	}
	m.prefs.RecentFiles = recent
}

func (m *Manager) SetLastSaveName(name string) {
	m.prefs.LastSaveName = name
}

// SetView records the camera zoom, clamped to the editor's range, and the
// base tool name.
func (m *Manager) SetView(zoom float64, tool string) {
	m.prefs.Zoom = common.Clamp(zoom, 0.25, 4)
	if tool != "" {
		m.prefs.BaseTool = tool
	}
}

func (m *Manager) SetShowGrid(show bool) {
	m.prefs.ShowGrid = show
}
