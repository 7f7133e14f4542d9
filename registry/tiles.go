package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownTile = errors.New("registry: unknown tile")

// DefaultView is preferred when a tile has no explicit view.
const DefaultView = "default"

// FrontView is the head-on variant that random view picking avoids.
const FrontView = "front"

const defaultAnimationDelayMs = 500

type TileProperties struct {
	Walkable             bool    `yaml:"walkable" json:"walkable"`
	Buildable            bool    `yaml:"buildable" json:"buildable"`
	MovementCost         float64 `yaml:"movement_cost" json:"movementCost"`
	EditorAnimated       bool    `yaml:"editor_animated" json:"editorAnimated"`
	EditorAnimationDelay int     `yaml:"editor_animation_delay" json:"editorAnimationDelay"`
	Cascading            bool    `yaml:"cascading" json:"cascading"`
}

// TileDef describes one paintable tile type.
type TileDef struct {
	ID          string            `yaml:"id" json:"id"`
	Kind        string            `yaml:"kind" json:"kind"`
	Name        string            `yaml:"name" json:"name"`
	Color       Color             `yaml:"color" json:"uiColor"`
	PhaserColor Color             `yaml:"-" json:"phaserColor"`
	Images      map[string]string `yaml:"images" json:"images"`
	Variants    []string          `yaml:"variants" json:"variants"`
	Properties  TileProperties    `yaml:"properties" json:"properties"`
	Metadata    map[string]any    `yaml:"metadata" json:"metadata"`
}

// AnimationDelayMs is the editor frame delay, defaulting to 500ms.
func (d *TileDef) AnimationDelayMs() int {
	if d.Properties.EditorAnimationDelay > 0 {
		return d.Properties.EditorAnimationDelay
	}
	return defaultAnimationDelayMs
}

// Views returns the view names in sorted order.
func (d *TileDef) Views() []string {
	return slices.Sorted(maps.Keys(d.Images))
}

// Frames returns the image paths ordered by view name.
func (d *TileDef) Frames() []string {
	views := d.Views()
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, d.Images[v])
	}
	return out
}

// Image resolves a view to an image path, falling back to the default view
// and then to the first view.
func (d *TileDef) Image(view string) string {
	if p, ok := d.Images[view]; ok {
		return p
	}
	if p, ok := d.Images[DefaultView]; ok {
		return p
	}
	if views := d.Views(); len(views) > 0 {
		return d.Images[views[0]]
	}
	return ""
}

func (d *TileDef) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

func (d *TileDef) validate() error {
	if d.ID == "" {
		return fmt.Errorf("tile with empty id")
	}
	if !d.Color.Set {
		d.Color = d.PhaserColor
	}
	if !d.Color.Set {
		d.Color = RGB(0xcc, 0xcc, 0xcc)
	}
	if d.Properties.Cascading && len(d.Images) < 2 {
		return fmt.Errorf("tile %s: cascading tiles need at least two images", d.ID)
	}
	return nil
}

// TileFile is the on-disk registry layout shared by the YAML and JSON forms.
type TileFile struct {
	Version     int       `yaml:"version" json:"version"`
	GeneratedBy string    `yaml:"generated_by" json:"generatedBy"`
	Tiles       []TileDef `yaml:"tiles" json:"tiles"`
}

// Tiles is a read-only lookup of tile definitions.
type Tiles struct {
	defs map[string]*TileDef
	ids  []string
}

func NewTiles(defs []TileDef) (*Tiles, error) {
	t := &Tiles{defs: make(map[string]*TileDef, len(defs))}
	for i := range defs {
		d := defs[i]
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := t.defs[d.ID]; dup {
			return nil, fmt.Errorf("duplicate tile id %q", d.ID)
		}
		t.defs[d.ID] = &d
		t.ids = append(t.ids, d.ID)
	}
	slices.Sort(t.ids)
	return t, nil
}

// DecodeTiles parses a registry file, choosing YAML or JSON by extension.
func DecodeTiles(name string, data []byte) (*Tiles, error) {
	var file TileFile
	if err := unmarshal(name, data, &file); err != nil {
		return nil, err
	}
	return NewTiles(file.Tiles)
}

// Lookup returns the definition for id.
func (t *Tiles) Lookup(id string) (*TileDef, error) {
	if t == nil {
		return nil, fmt.Errorf("%w %q: registry not loaded", ErrUnknownTile, id)
	}
	d, ok := t.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTile, id)
	}
	return d, nil
}

func (t *Tiles) Has(id string) bool {
	if t == nil {
		return false
	}
	_, ok := t.defs[id]
	return ok
}

// IDs returns the tile ids in sorted order.
func (t *Tiles) IDs() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.ids)
}

func (t *Tiles) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ids)
}

func unmarshal(name string, data []byte, out any) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("registry: unmarshal %s: %w", name, err)
		}
	default:
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("registry: unmarshal %s: %w", name, err)
		}
	}
	return nil
}
