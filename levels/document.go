package levels

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/milk9111/tilefall/grid"
	"github.com/milk9111/tilefall/sim"
)

// Validation errors. They alias the grid and sim sentinels so callers can
// match with errors.Is against either package.
var (
	ErrInvalidSize     = grid.ErrInvalidSize
	ErrTileCount       = grid.ErrTileCount
	ErrUnknownKind     = grid.ErrUnknownKind
	ErrStartOutOfRange = sim.ErrStartOutOfRange
)

// Document is the format-independent description of a level.
type Document struct {
	Size  grid.Size     `json:"size"`
	Tiles []Tag         `json:"tiles"`
	Start grid.Position `json:"start_tile"`
}

// Tag is one tile entry. In JSON it may be the numeric code or the textual
// name of the kind.
type Tag grid.Kind

func (t *Tag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		k, err := grid.ParseKind(name)
		if err != nil {
			return err
		}
		*t = Tag(k)
		return nil
	}

	var code int
	if err := json.Unmarshal(b, &code); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownKind, b)
	}
	k, err := grid.KindFromCode(code)
	if err != nil {
		return err
	}
	*t = Tag(k)
	return nil
}

func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(grid.Kind(t).Code())
}

// Kinds converts the tag list into grid kinds.
func (d Document) Kinds() []grid.Kind {
	kinds := make([]grid.Kind, len(d.Tiles))
	for i, t := range d.Tiles {
		kinds[i] = grid.Kind(t)
	}
	return kinds
}

// Validate checks the size, tile count, every tag and the start tile.
func (d Document) Validate() error {
	w, h := d.Size.Width, d.Size.Height
	if w <= 0 || h <= 0 {
		return fmt.Errorf("levels: validate: %w: %dx%d", ErrInvalidSize, w, h)
	}
	if len(d.Tiles) != w*h {
		return fmt.Errorf("levels: validate: %w: got %d, want %d", ErrTileCount, len(d.Tiles), w*h)
	}
	for i, t := range d.Tiles {
		if !grid.Kind(t).Valid() {
			return fmt.Errorf("levels: validate: %w: tile %d", ErrUnknownKind, i)
		}
	}
	if d.Start.Row < 0 || d.Start.Row >= h || d.Start.Column < 0 || d.Start.Column >= w {
		return fmt.Errorf("levels: validate: %w: %s in %dx%d", ErrStartOutOfRange, d.Start, w, h)
	}
	return nil
}

// Level validates the document and builds a playable level.
func (d Document) Level(name string, tileSize float64) (sim.Level, error) {
	if err := d.Validate(); err != nil {
		return sim.Level{Name: name}, err
	}
	g, err := grid.New(d.Size.Width, d.Size.Height, d.Kinds(), tileSize)
	if err != nil {
		return sim.Level{Name: name}, fmt.Errorf("levels: build %s: %w", name, err)
	}
	return sim.Level{Name: name, Grid: g, Start: d.Start}, nil
}

// FromLevel turns a loaded level back into a document, e.g. to re-export a
// TMX or scripted level as JSON.
func FromLevel(lvl sim.Level) Document {
	if lvl.Grid == nil {
		return Document{Start: lvl.Start}
	}
	kinds := lvl.Grid.Kinds()
	tags := make([]Tag, len(kinds))
	for i, k := range kinds {
		tags[i] = Tag(k)
	}
	return Document{Size: lvl.Grid.Size(), Tiles: tags, Start: lvl.Start}
}

// DecodeJSON parses a JSON level document.
func DecodeJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("levels: unmarshal json: %w", err)
	}
	return doc, nil
}
