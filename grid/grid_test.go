package grid

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
)

// floorGrid is an 8x8 grid of air with a wall along the bottom row.
func floorGrid(t *testing.T) *Grid {
	t.Helper()
	tiles := make([]Kind, 64)
	for col := 0; col < 8; col++ {
		tiles[7*8+col] = Wall
	}
	g, err := New(8, 8, tiles, 16)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	return g
}

func TestKindIsWall(t *testing.T) {
	cases := []struct {
		kind Kind
		want bool
	}{
		{Air, false},
		{Grass, true},
		{GrassLeft, true},
		{GrassRight, true},
		{Wall, true},
		{Key, false},
		{Kind(42), false},
	}
	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			if got := c.kind.IsWall(); got != c.want {
				t.Fatalf("IsWall() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"air", Air, false},
		{"grass_left", GrassLeft, false},
		{"GrassRight", GrassRight, false},
		{" WALL ", Wall, false},
		{"key", Key, false},
		{"lava", Air, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseKind(c.in)
			if c.wantErr {
				if !errors.Is(err, ErrUnknownKind) {
					t.Fatalf("expected ErrUnknownKind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Fatalf("got %s, want %s", got, c.want)
			}
		})
	}

	if _, err := KindFromCode(6); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("code 6 should be unknown, got %v", err)
	}
	if k, err := KindFromCode(5); err != nil || k != Key {
		t.Fatalf("code 5 = %v, %v", k, err)
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(0, 4, nil, 16); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	if _, err := New(2, 2, make([]Kind, 3), 16); !errors.Is(err, ErrTileCount) {
		t.Fatalf("expected ErrTileCount, got %v", err)
	}
	if _, err := New(1, 1, []Kind{Kind(9)}, 16); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	g, err := New(1, 1, []Kind{Wall}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if g.TileSize() != DefaultTileSize {
		t.Fatalf("tile size = %v, want default", g.TileSize())
	}
}

func TestKindAtOutOfRange(t *testing.T) {
	g := floorGrid(t)
	cases := []struct {
		name     string
		row, col int
	}{
		{"negative_row", -1, 0},
		{"negative_col", 7, -1},
		{"past_height", 8, 0},
		{"past_width", 7, 8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, ok := g.KindAt(c.row, c.col); ok {
				t.Fatalf("expected no tile at %d,%d", c.row, c.col)
			}
			if g.SolidAt(c.row, c.col) {
				t.Fatalf("off-map cell must not be solid")
			}
		})
	}
	if k, ok := g.KindAt(7, 3); !ok || k != Wall {
		t.Fatalf("KindAt(7,3) = %v %v", k, ok)
	}
}

func TestTileScreenRoundTrip(t *testing.T) {
	g := floorGrid(t)

	for row := -3; row < 11; row++ {
		for col := -3; col < 11; col++ {
			p := Position{Row: row, Column: col}
			if got := g.ScreenToTile(g.TileToScreen(p)); got != p {
				t.Fatalf("round trip %s -> %s", p, got)
			}
		}
	}

	points := []cp.Vector{
		{X: 0, Y: 0},
		{X: -64, Y: -64},
		{X: 63.5, Y: 63.9},
		{X: -0.25, Y: -0.25},
		{X: 17, Y: -33},
		{X: 200, Y: -300},
	}
	for _, p := range points {
		corner := g.TileToScreen(g.ScreenToTile(p))
		if p.X < corner.X || p.X >= corner.X+16 || p.Y < corner.Y || p.Y >= corner.Y+16 {
			t.Fatalf("point %v not inside its tile at %v", p, corner)
		}
	}
}

func TestMappingOrientation(t *testing.T) {
	g := floorGrid(t)
	if got := g.TileToScreen(Position{Row: 0, Column: 0}); got != (cp.Vector{X: -64, Y: 48}) {
		t.Fatalf("top-left tile at %v", got)
	}
	if got := g.TileToScreen(Position{Row: 7, Column: 7}); got != (cp.Vector{X: 48, Y: -64}) {
		t.Fatalf("bottom-right tile at %v", got)
	}
	if g.BottomEdge() != -64 {
		t.Fatalf("bottom edge = %v", g.BottomEdge())
	}
	b := g.Bounds()
	if b.L != -64 || b.R != 64 || b.B != -64 || b.T != 64 {
		t.Fatalf("bounds = %+v", b)
	}
}

func TestTileCodes(t *testing.T) {
	g, err := New(3, 2, []Kind{Air, Grass, GrassLeft, GrassRight, Wall, Key}, 16)
	if err != nil {
		t.Fatal(err)
	}
	codes := g.TileCodes()
	for i, want := range []uint32{0, 1, 2, 3, 4, 5} {
		if codes[i] != want {
			t.Fatalf("codes[%d] = %d, want %d", i, codes[i], want)
		}
	}
	if keys := g.Find(Key); len(keys) != 1 || keys[0] != (Position{Row: 1, Column: 2}) {
		t.Fatalf("Find(Key) = %v", keys)
	}
}
