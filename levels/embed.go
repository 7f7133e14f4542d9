package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// LoadEmbedded decodes one of the bundled sample scenes.
func LoadEmbedded(name string) (SaveFile, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	f, err := LevelsFS.Open(name)
	if err != nil {
		return SaveFile{}, fmt.Errorf("levels: open %s: %w", name, err)
	}
	defer f.Close()
	save, err := Decode(f)
	if err != nil {
		return SaveFile{}, fmt.Errorf("levels: %s: %w", name, err)
	}
	return save, nil
}

// Embedded lists the bundled sample scenes.
func Embedded() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	slices.Sort(out)
	return out
}
