package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// DefaultTileSize is the edge length of one tile in screen units.
const DefaultTileSize = 16.0

var (
	ErrInvalidSize = errors.New("grid: invalid size")
	ErrTileCount   = errors.New("grid: tile count does not match size")
)

// Position is a tile coordinate. Row 0 is the top row of the map.
type Position struct {
	Row    int `json:"row" yaml:"row"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Column)
}

// Size is the grid extent in tiles.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Grid is an immutable row-major tile map centered on the screen origin.
//
// Screen space has Y pointing up while rows grow downward, so the centering
// transform flips the vertical axis. Every conversion in this package goes
// through ScreenToTile/TileToScreen so the convention lives in one place.
type Grid struct {
	width    int
	height   int
	tileSize float64
	tiles    []Kind
}

// New copies tiles into a new grid. tileSize <= 0 selects DefaultTileSize.
func New(width, height int, tiles []Kind, tileSize float64) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if len(tiles) != width*height {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrTileCount, len(tiles), width*height)
	}
	for i, k := range tiles {
		if !k.Valid() {
			return nil, fmt.Errorf("%w: index %d", ErrUnknownKind, i)
		}
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	copied := make([]Kind, len(tiles))
	copy(copied, tiles)
	return &Grid{width: width, height: height, tileSize: tileSize, tiles: copied}, nil
}

// Filled builds a grid with every tile set to kind.
func Filled(width, height int, kind Kind, tileSize float64) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	tiles := make([]Kind, width*height)
	for i := range tiles {
		tiles[i] = kind
	}
	return New(width, height, tiles, tileSize)
}

func (g *Grid) Width() int {
	if g == nil {
		return 0
	}
	return g.width
}

func (g *Grid) Height() int {
	if g == nil {
		return 0
	}
	return g.height
}

func (g *Grid) Size() Size {
	return Size{Width: g.Width(), Height: g.Height()}
}

func (g *Grid) TileSize() float64 {
	if g == nil {
		return DefaultTileSize
	}
	return g.tileSize
}

// Index returns the flattened index for row/col and whether it is on the map.
func (g *Grid) Index(row, col int) (int, bool) {
	if g == nil || row < 0 || col < 0 || row >= g.height || col >= g.width {
		return 0, false
	}
	idx := row*g.width + col
	if idx >= len(g.tiles) {
		return 0, false
	}
	return idx, true
}

// KindAt returns the tile at row/col. Off-map cells report false and are
// open space to every caller.
func (g *Grid) KindAt(row, col int) (Kind, bool) {
	idx, ok := g.Index(row, col)
	if !ok {
		return Air, false
	}
	return g.tiles[idx], true
}

// SolidAt reports whether the cell holds a wall tile.
func (g *Grid) SolidAt(row, col int) bool {
	k, ok := g.KindAt(row, col)
	return ok && k.IsWall()
}

// At is KindAt for a Position.
func (g *Grid) At(p Position) (Kind, bool) {
	return g.KindAt(p.Row, p.Column)
}

// ScreenToTile converts a screen point to the tile that contains it.
func (g *Grid) ScreenToTile(pos cp.Vector) Position {
	return Position{
		Row:    g.rowForY(pos.Y),
		Column: g.colForX(pos.X),
	}
}

// TileToScreen returns the bottom-left corner of the tile in screen space.
// ScreenToTile(TileToScreen(p)) == p for every p, on or off the map.
func (g *Grid) TileToScreen(p Position) cp.Vector {
	return cp.Vector{X: g.colLeft(p.Column), Y: g.rowBottom(p.Row)}
}

// TileCenter returns the screen-space center of the tile.
func (g *Grid) TileCenter(p Position) cp.Vector {
	half := g.TileSize() / 2
	return g.TileToScreen(p).Add(cp.Vector{X: half, Y: half})
}

// TileBB returns the tile's screen-space box.
func (g *Grid) TileBB(p Position) cp.BB {
	bl := g.TileToScreen(p)
	t := g.TileSize()
	return cp.NewBBForExtents(bl.Add(cp.Vector{X: t / 2, Y: t / 2}), t/2, t/2)
}

// BottomEdge is the screen Y of the bottom boundary of the map.
func (g *Grid) BottomEdge() float64 {
	return g.rowBottom(g.Height() - 1)
}

// Bounds is the screen-space box covering the whole map.
func (g *Grid) Bounds() cp.BB {
	t := g.TileSize()
	return cp.BB{
		L: g.colLeft(0),
		B: g.BottomEdge(),
		R: g.colLeft(g.Width()-1) + t,
		T: g.rowBottom(0) + t,
	}
}

// TileCodes flattens the grid into numeric tags for a tile-indexed renderer.
func (g *Grid) TileCodes() []uint32 {
	if g == nil {
		return nil
	}
	out := make([]uint32, len(g.tiles))
	for i, k := range g.tiles {
		out[i] = k.Code()
	}
	return out
}

// Kinds returns a copy of the backing tiles.
func (g *Grid) Kinds() []Kind {
	if g == nil {
		return nil
	}
	out := make([]Kind, len(g.tiles))
	copy(out, g.tiles)
	return out
}

// Find returns every position holding kind, in row-major order.
func (g *Grid) Find(kind Kind) []Position {
	if g == nil {
		return nil
	}
	var out []Position
	for i, k := range g.tiles {
		if k == kind {
			out = append(out, Position{Row: i / g.width, Column: i % g.width})
		}
	}
	return out
}

func (g *Grid) colForX(x float64) int {
	return int(math.Floor(x/g.TileSize())) + g.Width()/2
}

func (g *Grid) rowForY(y float64) int {
	fromBottom := int(math.Floor(y/g.TileSize())) + g.Height()/2
	return g.Height() - 1 - fromBottom
}

func (g *Grid) colLeft(col int) float64 {
	return float64(col-g.Width()/2) * g.TileSize()
}

func (g *Grid) rowBottom(row int) float64 {
	return float64(g.Height()-1-row-g.Height()/2) * g.TileSize()
}
