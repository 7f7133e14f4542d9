// Package levels defines the versioned scene file the editor saves and loads.
package levels

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/milk9111/gridpaint/grid"
)

// CurrentVersion is the only version Decode accepts.
const CurrentVersion = 1

// DefaultSaveName is used when Save As is confirmed with an empty name.
const DefaultSaveName = "scene.json"

var (
	ErrUnsupportedVersion = errors.New("unsupported save version")
	ErrInvalid            = errors.New("invalid save")
)

// Tile is one placed tile as persisted.
type Tile struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	GX       int            `json:"gx"`
	GY       int            `json:"gy"`
	Rotation *float64       `json:"rotation,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Custom   map[string]any `json:"custom,omitempty"`
	View     string         `json:"view,omitempty"`
}

func (t Tile) Cell() grid.Cell { return grid.Cell{X: t.GX, Y: t.GY} }

// Clone copies the slices and maps so edits to the clone do not leak back.
func (t Tile) Clone() Tile {
	out := t
	if t.Rotation != nil {
		r := *t.Rotation
		out.Rotation = &r
	}
	out.Tags = slices.Clone(t.Tags)
	if t.Custom != nil {
		out.Custom = make(map[string]any, len(t.Custom))
		for k, v := range t.Custom {
			out.Custom[k] = v
		}
	}
	return out
}

type SaveFile struct {
	Version int    `json:"version"`
	Tiles   []Tile `json:"tiles"`
}

func New(tiles []Tile) SaveFile {
	if tiles == nil {
		tiles = []Tile{}
	}
	return SaveFile{Version: CurrentVersion, Tiles: tiles}
}

// Decode parses a save file and rejects any version but CurrentVersion.
func Decode(r io.Reader) (SaveFile, error) {
	var save SaveFile
	if err := json.NewDecoder(r).Decode(&save); err != nil {
		return SaveFile{}, fmt.Errorf("levels: decode: %w", err)
	}
	if save.Version != CurrentVersion {
		return SaveFile{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, save.Version)
	}
	return save, nil
}

// Validate reports the first tile whose type known rejects, and any cell
// holding two tiles. A nil known accepts every type.
func (s SaveFile) Validate(known func(tileType string) bool) error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	seen := make(map[grid.Cell]int, len(s.Tiles))
	for i, t := range s.Tiles {
		if t.Type == "" {
			return fmt.Errorf("%w: tile %d has no type", ErrInvalid, i)
		}
		if known != nil && !known(t.Type) {
			return fmt.Errorf("%w: tile %d has unknown type %q", ErrInvalid, i, t.Type)
		}
		if j, ok := seen[t.Cell()]; ok {
			return fmt.Errorf("%w: cell %s holds both tile %d (%s) and tile %d (%s)",
				ErrInvalid, t.Cell(), j, s.Tiles[j].Type, i, t.Type)
		}
		seen[t.Cell()] = i
	}
	return nil
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte) (SaveFile, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes indented JSON with tiles in row-major order so saves diff
// cleanly.
func Encode(w io.Writer, save SaveFile) error {
	if save.Version == 0 {
		save.Version = CurrentVersion
	}
	tiles := slices.Clone(save.Tiles)
	if tiles == nil {
		tiles = []Tile{}
	}
	slices.SortStableFunc(tiles, func(a, b Tile) int {
		return cmp.Or(cmp.Compare(a.GY, b.GY), cmp.Compare(a.GX, b.GX), cmp.Compare(a.ID, b.ID))
	})
	save.Tiles = tiles

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(save)
}

// WriteFile saves to path, creating parent directories.
func WriteFile(path string, save SaveFile) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("levels: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("levels: create %s: %w", path, err)
	}
	if err := Encode(f, save); err != nil {
		f.Close()
		return fmt.Errorf("levels: encode %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile loads and validates a save file.
func ReadFile(path string) (SaveFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return SaveFile{}, fmt.Errorf("levels: open %s: %w", path, err)
	}
	defer f.Close()
	save, err := Decode(f)
	if err != nil {
		return SaveFile{}, fmt.Errorf("levels: %s: %w", path, err)
	}
	return save, nil
}

// Open is ReadFile for interactive use: failures are logged and reported as
// "no file" rather than surfaced.
func Open(path string) (SaveFile, bool) {
	if strings.TrimSpace(path) == "" {
		return SaveFile{}, false
	}
	save, err := ReadFile(path)
	if err != nil {
		log.Printf("levels: open ignored: %v", err)
		return SaveFile{}, false
	}
	return save, true
}

// SaveAsName normalizes a user supplied file name.
func SaveAsName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultSaveName
	}
	if !strings.EqualFold(filepath.Ext(name), ".json") {
		name += ".json"
	}
	return name
}
