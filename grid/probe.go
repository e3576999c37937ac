package grid

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
)

var ErrHitboxTooLarge = errors.New("grid: hitbox larger than a tile")

// edgeEpsilon keeps sample points strictly inside (or outside) the hitbox
// when an edge lies exactly on a tile boundary.
const edgeEpsilon = 1e-6

// Probe answers directional wall queries for an axis-aligned hitbox whose
// position is its bottom-left corner. Each query samples the two cells at
// the corners of the leading edge, so a hitbox straddling a tile boundary is
// always checked against both tiles it touches.
type Probe struct {
	grid   *Grid
	width  float64
	height float64
}

// NewProbe binds a hitbox size to a grid. The hitbox may not exceed one tile
// on either axis, otherwise two samples could miss a wall between them.
func NewProbe(g *Grid, width, height float64) (*Probe, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidSize)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: hitbox %.2fx%.2f", ErrInvalidSize, width, height)
	}
	if width > g.TileSize() || height > g.TileSize() {
		return nil, fmt.Errorf("%w: %.2fx%.2f > %.2f", ErrHitboxTooLarge, width, height, g.TileSize())
	}
	return &Probe{grid: g, width: width, height: height}, nil
}

func (p *Probe) Grid() *Grid {
	if p == nil {
		return nil
	}
	return p.grid
}

// HitboxBB returns the screen-space box of a hitbox at pos.
func (p *Probe) HitboxBB(pos cp.Vector) cp.BB {
	return cp.BB{L: pos.X, B: pos.Y, R: pos.X + p.width, T: pos.Y + p.height}
}

func (p *Probe) CollidesBottom(pos cp.Vector) bool {
	if p == nil {
		return false
	}
	y := pos.Y - edgeEpsilon
	return p.solidPoint(pos.X, y) || p.solidPoint(pos.X+p.width-edgeEpsilon, y)
}

func (p *Probe) CollidesTop(pos cp.Vector) bool {
	if p == nil {
		return false
	}
	y := pos.Y + p.height
	return p.solidPoint(pos.X, y) || p.solidPoint(pos.X+p.width-edgeEpsilon, y)
}

func (p *Probe) CollidesLeft(pos cp.Vector) bool {
	if p == nil {
		return false
	}
	x := pos.X - edgeEpsilon
	return p.solidPoint(x, pos.Y) || p.solidPoint(x, pos.Y+p.height-edgeEpsilon)
}

func (p *Probe) CollidesRight(pos cp.Vector) bool {
	if p == nil {
		return false
	}
	x := pos.X + p.width
	return p.solidPoint(x, pos.Y) || p.solidPoint(x, pos.Y+p.height-edgeEpsilon)
}

// AtBottomEdge reports whether the hitbox has reached or passed the bottom
// boundary of the map, which acts as a floor everywhere along X.
func (p *Probe) AtBottomEdge(pos cp.Vector) bool {
	if p == nil {
		return false
	}
	return pos.Y <= p.grid.BottomEdge()+edgeEpsilon
}

// Grounded is CollidesBottom or AtBottomEdge.
func (p *Probe) Grounded(pos cp.Vector) bool {
	return p.CollidesBottom(pos) || p.AtBottomEdge(pos)
}

// EmbeddedLeft reports whether the hitbox's own left column overlaps a wall.
func (p *Probe) EmbeddedLeft(pos cp.Vector) bool {
	if p == nil {
		return false
	}
	return p.solidPoint(pos.X, pos.Y) || p.solidPoint(pos.X, pos.Y+p.height-edgeEpsilon)
}

// EmbeddedRight reports whether the hitbox's own right column overlaps a wall.
func (p *Probe) EmbeddedRight(pos cp.Vector) bool {
	if p == nil {
		return false
	}
	x := pos.X + p.width - edgeEpsilon
	return p.solidPoint(x, pos.Y) || p.solidPoint(x, pos.Y+p.height-edgeEpsilon)
}

// NearKind reports whether kind lies in the 2x2 block anchored at the tile
// holding pos: that tile, the one above it and their right-hand neighbours.
// The block reaches one tile past an aligned hitbox, so a character standing
// flush against the tile to its right or top already counts as touching it.
func (p *Probe) NearKind(pos cp.Vector, kind Kind) bool {
	if p == nil {
		return false
	}
	for _, cell := range p.Block(pos) {
		if k, ok := p.grid.At(cell); ok && k == kind {
			return true
		}
	}
	return false
}

// Block lists the 2x2 cells NearKind samples.
func (p *Probe) Block(pos cp.Vector) [4]Position {
	if p == nil {
		return [4]Position{}
	}
	at := p.grid.ScreenToTile(pos)
	return [4]Position{
		at,
		{Row: at.Row, Column: at.Column + 1},
		{Row: at.Row - 1, Column: at.Column},
		{Row: at.Row - 1, Column: at.Column + 1},
	}
}

// Covered lists the distinct cells overlapped by the hitbox.
func (p *Probe) Covered(pos cp.Vector) []Position {
	if p == nil {
		return nil
	}
	g := p.grid
	cols := [2]int{g.colForX(pos.X), g.colForX(pos.X + p.width - edgeEpsilon)}
	rows := [2]int{g.rowForY(pos.Y), g.rowForY(pos.Y + p.height - edgeEpsilon)}
	out := make([]Position, 0, 4)
	for ri, r := range rows {
		if ri == 1 && r == rows[0] {
			continue
		}
		for ci, c := range cols {
			if ci == 1 && c == cols[0] {
				continue
			}
			out = append(out, Position{Row: r, Column: c})
		}
	}
	return out
}

// SweepDown clamps a downward displacement dy (<= 0) so the feet stop on the
// first wall top, or on the bottom edge of the map, that lies in the path.
// It returns the allowed displacement and whether it was shortened.
func (p *Probe) SweepDown(pos cp.Vector, dy float64) (float64, bool) {
	if p == nil || dy >= 0 {
		return dy, false
	}
	g := p.grid
	target := pos.Y + dy
	cols := [2]int{g.colForX(pos.X), g.colForX(pos.X + p.width - edgeEpsilon)}
	for r := g.rowForY(pos.Y - edgeEpsilon); r <= g.rowForY(target); r++ {
		top := g.rowBottom(r) + g.TileSize()
		if top > pos.Y+edgeEpsilon || top < target {
			continue
		}
		if g.SolidAt(r, cols[0]) || g.SolidAt(r, cols[1]) {
			return top - pos.Y, true
		}
	}
	if edge := g.BottomEdge(); pos.Y >= edge-edgeEpsilon && target < edge {
		return edge - pos.Y, true
	}
	return dy, false
}

// SweepUp clamps an upward displacement dy (>= 0) so the head stops flush
// against the first ceiling in the path.
func (p *Probe) SweepUp(pos cp.Vector, dy float64) (float64, bool) {
	if p == nil || dy <= 0 {
		return dy, false
	}
	g := p.grid
	head := pos.Y + p.height
	target := head + dy
	cols := [2]int{g.colForX(pos.X), g.colForX(pos.X + p.width - edgeEpsilon)}
	for r := g.rowForY(head); r >= g.rowForY(target-edgeEpsilon); r-- {
		bottom := g.rowBottom(r)
		if bottom < head-edgeEpsilon || bottom >= target {
			continue
		}
		if g.SolidAt(r, cols[0]) || g.SolidAt(r, cols[1]) {
			return bottom - head, true
		}
	}
	return dy, false
}

// SweepRight clamps a rightward displacement dx (>= 0) at the first wall face.
func (p *Probe) SweepRight(pos cp.Vector, dx float64) (float64, bool) {
	if p == nil || dx <= 0 {
		return dx, false
	}
	g := p.grid
	edge := pos.X + p.width
	target := edge + dx
	rows := [2]int{g.rowForY(pos.Y), g.rowForY(pos.Y + p.height - edgeEpsilon)}
	for c := g.colForX(edge); c <= g.colForX(target-edgeEpsilon); c++ {
		left := g.colLeft(c)
		if left < edge-edgeEpsilon || left >= target {
			continue
		}
		if g.SolidAt(rows[0], c) || g.SolidAt(rows[1], c) {
			return left - edge, true
		}
	}
	return dx, false
}

// SweepLeft clamps a leftward displacement dx (<= 0) at the first wall face.
func (p *Probe) SweepLeft(pos cp.Vector, dx float64) (float64, bool) {
	if p == nil || dx >= 0 {
		return dx, false
	}
	g := p.grid
	edge := pos.X
	target := edge + dx
	rows := [2]int{g.rowForY(pos.Y), g.rowForY(pos.Y + p.height - edgeEpsilon)}
	for c := g.colForX(edge - edgeEpsilon); c >= g.colForX(target); c-- {
		right := g.colLeft(c) + g.TileSize()
		if right > edge+edgeEpsilon || right < target {
			continue
		}
		if g.SolidAt(rows[0], c) || g.SolidAt(rows[1], c) {
			return right - edge, true
		}
	}
	return dx, false
}

func (p *Probe) solidPoint(x, y float64) bool {
	return p.grid.SolidAt(p.grid.rowForY(y), p.grid.colForX(x))
}
