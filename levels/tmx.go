package levels

import (
	"fmt"
	"io/fs"
	"math"

	"github.com/lafriks/go-tiled"
	"github.com/milk9111/tilefall/grid"
)

const (
	tmxTileLayer  = "tiles"
	tmxStartGroup = "start"
	tmxKindProp   = "kind"
)

// DecodeTMX reads a Tiled map from fsys. Every non-empty cell of the "tiles"
// layer must reference a tileset tile with a "kind" property; the first
// object of the "start" group marks the start tile in pixel coordinates.
func DecodeTMX(fsys fs.FS, path string) (Document, error) {
	m, err := tiled.LoadFile(path, tiled.WithFileSystem(fsys))
	if err != nil {
		return Document{}, fmt.Errorf("levels: load tmx %s: %w", path, err)
	}
	if m.Width <= 0 || m.Height <= 0 || m.TileWidth <= 0 || m.TileHeight <= 0 {
		return Document{}, fmt.Errorf("levels: load tmx %s: %w: %dx%d", path, ErrInvalidSize, m.Width, m.Height)
	}

	doc := Document{Size: grid.Size{Width: m.Width, Height: m.Height}}

	var layer *tiled.Layer
	for _, l := range m.Layers {
		if l.Name == tmxTileLayer {
			layer = l
			break
		}
	}
	if layer == nil {
		return Document{}, fmt.Errorf("levels: load tmx %s: no %q layer", path, tmxTileLayer)
	}

	doc.Tiles = make([]Tag, len(layer.Tiles))
	for i, tile := range layer.Tiles {
		if tile == nil || tile.IsNil() {
			doc.Tiles[i] = Tag(grid.Air)
			continue
		}
		kind, err := tmxKind(tile)
		if err != nil {
			return Document{}, fmt.Errorf("levels: load tmx %s: tile %d: %w", path, i, err)
		}
		doc.Tiles[i] = Tag(kind)
	}

	start, err := tmxStart(m)
	if err != nil {
		return Document{}, fmt.Errorf("levels: load tmx %s: %w", path, err)
	}
	doc.Start = start
	return doc, nil
}

func tmxKind(tile *tiled.LayerTile) (grid.Kind, error) {
	if tile.Tileset == nil {
		return grid.Air, fmt.Errorf("%w: tile %d has no tileset", ErrUnknownKind, tile.ID)
	}
	tt, err := tile.Tileset.GetTilesetTile(tile.ID)
	if err != nil {
		return grid.Air, fmt.Errorf("%w: tile %d: %v", ErrUnknownKind, tile.ID, err)
	}
	name := tt.Properties.GetString(tmxKindProp)
	if name == "" {
		return grid.Air, fmt.Errorf("%w: tile %d has no %q property", ErrUnknownKind, tile.ID, tmxKindProp)
	}
	return grid.ParseKind(name)
}

func tmxStart(m *tiled.Map) (grid.Position, error) {
	for _, og := range m.ObjectGroups {
		if og.Name != tmxStartGroup || len(og.Objects) == 0 {
			continue
		}
		o := og.Objects[0]
		y := o.Y
		// Tile objects are anchored at their bottom edge.
		if o.GID != 0 {
			y -= float64(m.TileHeight)
		}
		return grid.Position{
			Row:    int(math.Floor(y / float64(m.TileHeight))),
			Column: int(math.Floor(o.X / float64(m.TileWidth))),
		}, nil
	}
	return grid.Position{}, fmt.Errorf("%w: no %q object", ErrStartOutOfRange, tmxStartGroup)
}
