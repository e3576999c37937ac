package grid

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
)

func gridWith(t *testing.T, walls ...Position) *Grid {
	t.Helper()
	tiles := make([]Kind, 64)
	for _, p := range walls {
		tiles[p.Row*8+p.Column] = Wall
	}
	g, err := New(8, 8, tiles, 16)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	return g
}

func tileProbe(t *testing.T, g *Grid) *Probe {
	t.Helper()
	p, err := NewProbe(g, 16, 16)
	if err != nil {
		t.Fatalf("new probe: %v", err)
	}
	return p
}

func TestNewProbeRejectsLargeHitbox(t *testing.T) {
	g := floorGrid(t)
	if _, err := NewProbe(g, 17, 16); !errors.Is(err, ErrHitboxTooLarge) {
		t.Fatalf("expected ErrHitboxTooLarge, got %v", err)
	}
	if _, err := NewProbe(nil, 8, 8); err == nil {
		t.Fatalf("expected error for nil grid")
	}
}

func TestCollidesBottom(t *testing.T) {
	floor := tileProbe(t, floorGrid(t))
	single := tileProbe(t, gridWith(t, Position{Row: 7, Column: 4}))

	cases := []struct {
		name  string
		probe *Probe
		pos   cp.Vector
		want  bool
	}{
		{"resting_on_floor", floor, cp.Vector{X: -16, Y: -48}, true},
		{"resting_straddling", floor, cp.Vector{X: -8, Y: -48}, true},
		{"hovering", floor, cp.Vector{X: -16, Y: -47}, false},
		{"embedded", floor, cp.Vector{X: -16, Y: -50}, true},
		{"straddle_reaches_right_cell", single, cp.Vector{X: -8, Y: -48}, true},
		{"aligned_next_to_wall", single, cp.Vector{X: -16, Y: -48}, false},
		{"off_map_left", floor, cp.Vector{X: -200, Y: -48}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.probe.CollidesBottom(c.pos); got != c.want {
				t.Fatalf("CollidesBottom(%v) = %v, want %v", c.pos, got, c.want)
			}
		})
	}
}

func TestDirectionalProbes(t *testing.T) {
	// Box around tile (4,4): ceiling at (3,4), walls at (4,3) and (4,5).
	g := gridWith(t,
		Position{Row: 3, Column: 4},
		Position{Row: 4, Column: 3},
		Position{Row: 4, Column: 5},
	)
	p := tileProbe(t, g)
	inside := g.TileToScreen(Position{Row: 4, Column: 4})

	if !p.CollidesTop(inside) {
		t.Fatalf("expected ceiling above %v", inside)
	}
	if !p.CollidesLeft(inside) {
		t.Fatalf("expected wall to the left of %v", inside)
	}
	if !p.CollidesRight(inside) {
		t.Fatalf("expected wall to the right of %v", inside)
	}
	if p.CollidesBottom(inside) {
		t.Fatalf("no floor under %v", inside)
	}
	if p.EmbeddedLeft(inside) || p.EmbeddedRight(inside) {
		t.Fatalf("flush hitbox must not report embedded")
	}

	shifted := inside.Add(cp.Vector{X: 2})
	if !p.EmbeddedRight(shifted) {
		t.Fatalf("expected embedded right at %v", shifted)
	}

	below := inside.Add(cp.Vector{Y: -3})
	if p.CollidesTop(below) {
		t.Fatalf("gap below ceiling must not collide")
	}
}

func TestSweeps(t *testing.T) {
	t.Run("down_lands_on_floor", func(t *testing.T) {
		p := tileProbe(t, floorGrid(t))
		dy, hit := p.SweepDown(cp.Vector{X: -64, Y: -16}, -36)
		if !hit || dy != -32 {
			t.Fatalf("SweepDown = %v %v, want -32 true", dy, hit)
		}
	})

	t.Run("down_does_not_tunnel", func(t *testing.T) {
		p := tileProbe(t, gridWith(t, Position{Row: 5, Column: 0}))
		dy, hit := p.SweepDown(cp.Vector{X: -64, Y: 48}, -500)
		if !hit || dy != -64 {
			t.Fatalf("SweepDown = %v %v, want -64 true", dy, hit)
		}
	})

	t.Run("down_stops_at_map_bottom", func(t *testing.T) {
		p := tileProbe(t, gridWith(t))
		dy, hit := p.SweepDown(cp.Vector{X: 0, Y: -50}, -40)
		if !hit || dy != -14 {
			t.Fatalf("SweepDown = %v %v, want -14 true", dy, hit)
		}
	})

	t.Run("down_free_fall", func(t *testing.T) {
		p := tileProbe(t, floorGrid(t))
		dy, hit := p.SweepDown(cp.Vector{X: 0, Y: 0}, -5)
		if hit || dy != -5 {
			t.Fatalf("SweepDown = %v %v, want -5 false", dy, hit)
		}
	})

	t.Run("up_stops_under_ceiling", func(t *testing.T) {
		p := tileProbe(t, gridWith(t, Position{Row: 2, Column: 4}))
		dy, hit := p.SweepUp(cp.Vector{X: 0, Y: -16}, 20)
		if !hit || dy != 16 {
			t.Fatalf("SweepUp = %v %v, want 16 true", dy, hit)
		}
	})

	t.Run("right_stops_at_wall", func(t *testing.T) {
		p := tileProbe(t, gridWith(t, Position{Row: 4, Column: 6}))
		dx, hit := p.SweepRight(cp.Vector{X: 0, Y: -16}, 25)
		if !hit || dx != 16 {
			t.Fatalf("SweepRight = %v %v, want 16 true", dx, hit)
		}
	})

	t.Run("left_stops_at_wall", func(t *testing.T) {
		p := tileProbe(t, gridWith(t, Position{Row: 4, Column: 1}))
		dx, hit := p.SweepLeft(cp.Vector{X: 0, Y: -16}, -60)
		if !hit || dx != -32 {
			t.Fatalf("SweepLeft = %v %v, want -32 true", dx, hit)
		}
	})
}

func TestNearKind(t *testing.T) {
	tiles := make([]Kind, 64)
	tiles[6*8+2] = Key
	g, err := New(8, 8, tiles, 16)
	if err != nil {
		t.Fatal(err)
	}
	p := tileProbe(t, g)

	cases := []struct {
		name string
		pos  cp.Vector
		want bool
	}{
		{"two_tiles_away", g.TileToScreen(Position{Row: 6, Column: 0}), false},
		{"flush_left_of_key", cp.Vector{X: -48, Y: -48}, true},
		{"straddling_key", cp.Vector{X: -44, Y: -48}, true},
		{"on_key", g.TileToScreen(Position{Row: 6, Column: 2}), true},
		{"above_straddling", cp.Vector{X: -32, Y: -40}, true},
		{"flush_below_key", g.TileToScreen(Position{Row: 7, Column: 2}), true},
		{"flush_right_of_key", g.TileToScreen(Position{Row: 6, Column: 3}), false},
		{"flush_above_key", g.TileToScreen(Position{Row: 5, Column: 2}), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := p.NearKind(c.pos, Key); got != c.want {
				t.Fatalf("NearKind(%v) = %v, want %v", c.pos, got, c.want)
			}
		})
	}

	block := p.Block(cp.Vector{X: -44, Y: -40})
	want := [4]Position{{Row: 6, Column: 1}, {Row: 6, Column: 2}, {Row: 5, Column: 1}, {Row: 5, Column: 2}}
	if block != want {
		t.Fatalf("Block = %v, want %v", block, want)
	}
}

func TestCovered(t *testing.T) {
	p := tileProbe(t, gridWith(t))
	g := p.grid

	if n := len(p.Covered(cp.Vector{X: -44, Y: -40})); n != 4 {
		t.Fatalf("unaligned hitbox should cover 4 cells, got %d", n)
	}
	if n := len(p.Covered(g.TileToScreen(Position{Row: 2, Column: 2}))); n != 1 {
		t.Fatalf("aligned hitbox should cover 1 cell, got %d", n)
	}
}
