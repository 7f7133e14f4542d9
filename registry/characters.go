package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var ErrUnknownCharacter = errors.New("registry: unknown character")

// Facing directions that headshots and animations are authored for.
const (
	FacingLeft   = "left"
	FacingRight  = "right"
	FacingTop    = "top"
	FacingBottom = "bottom"
)

type AnimationDef struct {
	FrameCount int  `yaml:"frame_count" json:"FRAME_COUNT"`
	FPS        int  `yaml:"fps" json:"FPS"`
	StartFrame int  `yaml:"start_frame" json:"START_FRAME"`
	EndFrame   int  `yaml:"end_frame" json:"END_FRAME"`
	Sampled    bool `yaml:"sampled" json:"SAMPLED"`
}

// CharacterDef describes a placeable character.
type CharacterDef struct {
	ID               string                  `yaml:"id" json:"id"`
	Name             string                  `yaml:"name" json:"CHAR_NAME"`
	Scale            float64                 `yaml:"sprite_scale" json:"SPRITE_SCALE_FACTOR"`
	RenderSize       int                     `yaml:"render_size" json:"RENDER_SIZE"`
	DefaultAnimation string                  `yaml:"default_animation" json:"DEFAULT_ANIMATION_NAME"`
	Sprite           string                  `yaml:"sprite" json:"sprite"`
	Headshots        map[string]string       `yaml:"headshots" json:"HEADSHOTS"`
	Animations       map[string]AnimationDef `yaml:"animations" json:"ANIMATIONS"`
	Color            Color                   `yaml:"color" json:"color"`
}

// Headshot returns the headshot image for a facing, falling back to the left
// facing and then to any available headshot.
func (d *CharacterDef) Headshot(facing string) string {
	if p, ok := d.Headshots[facing]; ok {
		return p
	}
	if p, ok := d.Headshots[FacingLeft]; ok {
		return p
	}
	if keys := slices.Sorted(maps.Keys(d.Headshots)); len(keys) > 0 {
		return d.Headshots[keys[0]]
	}
	return ""
}

func (d *CharacterDef) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

func (d *CharacterDef) validate() error {
	if d.ID == "" {
		return fmt.Errorf("character with empty id")
	}
	if d.Scale <= 0 {
		d.Scale = 1
	}
	if d.DefaultAnimation != "" && len(d.Animations) > 0 {
		if _, ok := d.Animations[d.DefaultAnimation]; !ok {
			return fmt.Errorf("character %s: default animation %q not defined", d.ID, d.DefaultAnimation)
		}
	}
	for name, a := range d.Animations {
		if a.EndFrame < a.StartFrame {
			return fmt.Errorf("character %s: animation %s ends before it starts", d.ID, name)
		}
	}
	if !d.Color.Set {
		d.Color = RGB(0xff, 0xc1, 0x07)
	}
	return nil
}

type CharacterFile struct {
	Characters []CharacterDef `yaml:"characters" json:"characters"`
}

// Characters is a read-only lookup of character definitions.
type Characters struct {
	defs map[string]*CharacterDef
	ids  []string
}

func NewCharacters(defs []CharacterDef) (*Characters, error) {
	c := &Characters{defs: make(map[string]*CharacterDef, len(defs))}
	for i := range defs {
		d := defs[i]
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.defs[d.ID]; dup {
			return nil, fmt.Errorf("duplicate character id %q", d.ID)
		}
		c.defs[d.ID] = &d
		c.ids = append(c.ids, d.ID)
	}
	slices.Sort(c.ids)
	return c, nil
}

func DecodeCharacters(name string, data []byte) (*Characters, error) {
	var file CharacterFile
	if err := unmarshal(name, data, &file); err != nil {
		return nil, err
	}
	return NewCharacters(file.Characters)
}

func (c *Characters) Lookup(id string) (*CharacterDef, error) {
	if c == nil {
		return nil, fmt.Errorf("%w %q: registry not loaded", ErrUnknownCharacter, id)
	}
	d, ok := c.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCharacter, id)
	}
	return d, nil
}

func (c *Characters) IDs() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.ids)
}

func (c *Characters) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}
