package registry

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// Registry file names, in lookup order.
var (
	TileFiles      = []string{"tiles.yaml", "tiles.yml", "tiles.json"}
	CharacterFiles = []string{"characters.yaml", "characters.yml", "characters.json"}
)

// Source reads registry files and assets from a directory on disk, falling
// back to an embedded tree. Disk always wins so edits can be hot reloaded.
type Source struct {
	Dir      string
	Fallback fs.FS
}

// DefaultSource reads from dir and falls back to the built-in registry.
func DefaultSource(dir string) Source {
	sub, err := fs.Sub(defaultsFS, "defaults")
	if err != nil {
		panic(err)
	}
	return Source{Dir: dir, Fallback: sub}
}

// ReadFile returns the named file from disk or the fallback tree.
func (s Source) ReadFile(name string) ([]byte, error) {
	clean := cleanPath(name)
	if s.Dir != "" {
		if data, err := os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	if s.Fallback == nil {
		return nil, fmt.Errorf("registry: read %s: %w", name, fs.ErrNotExist)
	}
	data, err := fs.ReadFile(s.Fallback, clean)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", name, err)
	}
	return data, nil
}

// ReadFirst returns the first of names that exists, checking disk for every
// name before the fallback.
func (s Source) ReadFirst(names ...string) (string, []byte, error) {
	if s.Dir != "" {
		for _, n := range names {
			data, err := os.ReadFile(filepath.Join(s.Dir, n))
			if err == nil {
				return n, data, nil
			}
		}
	}
	if s.Fallback != nil {
		for _, n := range names {
			data, err := fs.ReadFile(s.Fallback, n)
			if err == nil {
				return n, data, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return n, nil, fmt.Errorf("registry: read %s: %w", n, err)
			}
		}
	}
	return "", nil, fmt.Errorf("registry: none of %s found: %w", strings.Join(names, ", "), fs.ErrNotExist)
}

func cleanPath(path string) string {
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "./")
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		s = after
	}
	return s
}
