package levels

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/milk9111/tilefall/sim"
)

//go:embed *.json *.tmx *.tsx *.tengo
var LevelsFS embed.FS

var ErrNotFound = errors.New("levels: level not found")

// Extensions lists the supported level formats in lookup order.
var Extensions = []string{".json", ".tmx", ".tengo"}

// Source resolves level names against a file system. A name may carry its
// extension ("tower.tmx") or omit it ("tower"), in which case the formats
// are tried in Extensions order.
type Source struct {
	fsys     fs.FS
	tileSize float64
}

// NewSource reads levels from fsys, or from the embedded levels when fsys is
// nil.
func NewSource(fsys fs.FS, tileSize float64) *Source {
	if fsys == nil {
		fsys = LevelsFS
	}
	return &Source{fsys: fsys, tileSize: tileSize}
}

// WithTileSize returns a Source over the same files that builds grids with
// the given tile size.
func (s *Source) WithTileSize(tileSize float64) *Source {
	return &Source{fsys: s.fsys, tileSize: tileSize}
}

func (s *Source) TileSize() float64 {
	return s.tileSize
}

// Resolve maps a level name to the file that holds it.
func (s *Source) Resolve(name string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(name, "levels/"))
	if isLevelFile(clean) {
		if _, err := fs.Stat(s.fsys, clean); err == nil {
			return clean, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	for _, ext := range Extensions {
		if _, err := fs.Stat(s.fsys, clean+ext); err == nil {
			return clean + ext, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Document decodes the named level without validating it.
func (s *Source) Document(ctx context.Context, name string) (Document, error) {
	file, err := s.Resolve(name)
	if err != nil {
		return Document{}, err
	}

	switch strings.ToLower(path.Ext(file)) {
	case ".tmx":
		return DecodeTMX(s.fsys, file)
	case ".tengo":
		src, err := fs.ReadFile(s.fsys, file)
		if err != nil {
			return Document{}, fmt.Errorf("levels: read %s: %w", file, err)
		}
		return DecodeScript(ctx, src)
	default:
		data, err := fs.ReadFile(s.fsys, file)
		if err != nil {
			return Document{}, fmt.Errorf("levels: read %s: %w", file, err)
		}
		return DecodeJSON(data)
	}
}

// Load decodes, validates and builds the named level.
func (s *Source) Load(ctx context.Context, name string) (sim.Level, error) {
	doc, err := s.Document(ctx, name)
	if err != nil {
		return sim.Level{Name: name}, err
	}
	return doc.Level(name, s.tileSize)
}

// Names lists every level file in the source, sorted.
func (s *Source) Names() ([]string, error) {
	var names []string
	for _, ext := range Extensions {
		matches, err := fs.Glob(s.fsys, "*"+ext)
		if err != nil {
			return nil, fmt.Errorf("levels: glob *%s: %w", ext, err)
		}
		names = append(names, matches...)
	}
	sort.Strings(names)
	return names, nil
}

func isLevelFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
