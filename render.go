package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilefall/common"
	"github.com/milk9111/tilefall/grid"
	"github.com/milk9111/tilefall/prefabs"
	"github.com/milk9111/tilefall/sim"
)

const (
	minZoom      = 2.0
	maxZoom      = 4.0
	cameraFollow = 0.2
)

var fallbackTileColors = map[grid.Kind]color.Color{
	grid.Grass:      color.NRGBA{R: 0x3c, G: 0xb0, B: 0x43, A: 0xff},
	grid.GrassLeft:  color.NRGBA{R: 0x2e, G: 0x8b, B: 0x35, A: 0xff},
	grid.GrassRight: color.NRGBA{R: 0x2e, G: 0x8b, B: 0x35, A: 0xff},
	grid.Wall:       color.NRGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff},
	grid.Key:        color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff},
}

// camera maps world space (Y up, origin at the map center) onto the
// logical screen (Y down, origin top-left).
type camera struct {
	x, y float64
	zoom float64
}

// fit picks a zoom for the level and centers on target immediately.
func (c *camera) fit(g *grid.Grid, target cp.Vector) {
	b := g.Bounds()
	zoom := math.Min(common.BaseWidth/(b.R-b.L), common.BaseHeight/(b.T-b.B))
	c.zoom = common.Clamp(math.Floor(zoom*2)/2, minZoom, maxZoom)
	c.x, c.y = c.target(b, target)
}

func (c *camera) follow(g *grid.Grid, target cp.Vector) {
	tx, ty := c.target(g.Bounds(), target)
	c.x = common.Lerp(c.x, tx, cameraFollow)
	c.y = common.Lerp(c.y, ty, cameraFollow)
}

func (c *camera) target(b cp.BB, target cp.Vector) (float64, float64) {
	halfW := common.BaseWidth / 2 / c.zoom
	halfH := common.BaseHeight / 2 / c.zoom
	return clampView(target.X, b.L, b.R, halfW), clampView(target.Y, b.B, b.T, halfH)
}

func clampView(v, lo, hi, half float64) float64 {
	if hi-lo <= 2*half {
		return (lo + hi) / 2
	}
	return common.Clamp(v, lo+half, hi-half)
}

// project returns the screen-space top-left corner of a world box.
func (c *camera) project(bb cp.BB) (float32, float32, float32, float32) {
	x := (bb.L-c.x)*c.zoom + common.BaseWidth/2
	y := common.BaseHeight/2 - (bb.T-c.y)*c.zoom
	return float32(x), float32(y), float32((bb.R - bb.L) * c.zoom), float32((bb.T - bb.B) * c.zoom)
}

type renderer struct {
	palette *prefabs.PaletteSpec
	cam     camera
	tiles   map[grid.Kind]*ebiten.Image
}

func newRenderer(p *prefabs.PaletteSpec) *renderer {
	r := &renderer{cam: camera{zoom: minZoom}}
	r.setPalette(p)
	return r
}

// setPalette rebuilds the per-kind tile images.
func (r *renderer) setPalette(p *prefabs.PaletteSpec) {
	r.palette = p
	r.tiles = make(map[grid.Kind]*ebiten.Image, len(fallbackTileColors))
	for kind, fallback := range fallbackTileColors {
		img := ebiten.NewImage(1, 1)
		img.Fill(p.TileColor(kind, fallback))
		r.tiles[kind] = img
	}
}

func (r *renderer) background() color.Color {
	if r.palette == nil {
		return color.NRGBA{R: 0x1d, G: 0x2b, B: 0x53, A: 0xff}
	}
	return r.palette.Background.Or(color.NRGBA{R: 0x1d, G: 0x2b, B: 0x53, A: 0xff})
}

func (r *renderer) characterColor() color.Color {
	if r.palette == nil {
		return color.NRGBA{R: 0xff, G: 0x77, B: 0xa8, A: 0xff}
	}
	return r.palette.Character.Or(color.NRGBA{R: 0xff, G: 0x77, B: 0xa8, A: 0xff})
}

func (r *renderer) draw(screen *ebiten.Image, s *sim.Sim, debug bool) {
	screen.Fill(r.background())

	lvl := s.Level()
	if lvl == nil || lvl.Grid == nil {
		return
	}
	g := lvl.Grid
	ts := g.TileSize()

	codes := g.TileCodes()
	w := g.Width()
	for i, code := range codes {
		kind := grid.Kind(code)
		img, ok := r.tiles[kind]
		if !ok {
			continue
		}
		pos := grid.Position{Row: i / w, Column: i % w}
		x, y, _, _ := r.cam.project(g.TileBB(pos))

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(ts*r.cam.zoom, ts*r.cam.zoom)
		op.GeoM.Translate(float64(x), float64(y))
		screen.DrawImage(img, op)
	}

	c := s.Character()
	x, y, cw, ch := r.cam.project(c.BB())
	vector.FillRect(screen, x, y, cw, ch, r.characterColor(), false)

	if debug && s.Probe() != nil {
		for _, p := range s.Probe().Covered(c.Position) {
			tx, ty, tw, th := r.cam.project(g.TileBB(p))
			vector.StrokeRect(screen, tx, ty, tw, th, 1, color.RGBA{R: 255, A: 200}, false)
		}
	}
}
