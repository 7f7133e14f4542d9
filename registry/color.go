package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Color is a display color read from registry files. It accepts "#rgb",
// "#rrggbb", "#rrggbbaa", "0xrrggbb", a bare integer, or a CSS color name.
type Color struct {
	color.RGBA
	Set bool
}

func RGB(r, g, b uint8) Color {
	return Color{RGBA: color.RGBA{R: r, G: g, B: b, A: 0xff}, Set: true}
}

// WithAlpha returns c with a premultiplied alpha.
func (c Color) WithAlpha(a float64) color.RGBA {
	f := func(v uint8) uint8 { return uint8(float64(v) * a) }
	return color.RGBA{R: f(c.R), G: f(c.G), B: f(c.B), A: uint8(255 * a)}
}

func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("empty color")
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "#"):
		return parseHex(lower[1:], s)
	case strings.HasPrefix(lower, "0x"):
		v, err := strconv.ParseUint(lower[2:], 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return fromInt(v), nil
	}
	if c, ok := colornames.Map[lower]; ok {
		return Color{RGBA: c, Set: true}, nil
	}
	if v, err := strconv.ParseUint(lower, 10, 32); err == nil {
		return fromInt(v), nil
	}
	return Color{}, fmt.Errorf("invalid color format: %s", s)
}

func parseHex(h, orig string) (Color, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("invalid color format: %s", orig)
	}
	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(h[start:start+2], 16, 8)
		return uint8(v), err
	}
	var out [4]uint8
	out[3] = 0xff
	for i := 0; i < len(h)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", orig, err)
		}
		out[i] = v
	}
	return Color{RGBA: color.RGBA{R: out[0], G: out[1], B: out[2], A: out[3]}, Set: true}, nil
}

func fromInt(v uint64) Color {
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v))
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a scalar")
	}
	if value.Tag == "!!int" {
		v, err := strconv.ParseUint(value.Value, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid color %q: %w", value.Value, err)
		}
		*c = fromInt(v)
		return nil
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c *Color) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] != '"' {
		v, err := strconv.ParseUint(string(b), 10, 32)
		if err != nil {
			return fmt.Errorf("invalid color %s: %w", b, err)
		}
		*c = fromInt(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("color must be a string or number: %w", err)
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
