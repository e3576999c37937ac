package main

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/milk9111/tilefall/grid"
	"github.com/milk9111/tilefall/levels"
	"github.com/milk9111/tilefall/prefabs"
	"github.com/milk9111/tilefall/savedata"
	"github.com/milk9111/tilefall/sim"
)

// cellWidth is the number of terminal columns per tile; terminal cells are
// roughly twice as tall as they are wide.
const cellWidth = 2

var glyphs = map[grid.Kind]string{
	grid.Air:        "  ",
	grid.Grass:      "▀▀",
	grid.GrassLeft:  "▗▀",
	grid.GrassRight: "▀▖",
	grid.Wall:       "██",
	grid.Key:        "🔑",
}

const playerGlyph = "☻"

type app struct {
	screen  tcell.Screen
	sim     *sim.Sim
	source  *levels.Source
	store   *savedata.Store
	logger  *slog.Logger
	palette *prefabs.PaletteSpec

	keys       keyState
	names      []string
	levelTicks uint64
	debug      bool
	status     string
}

func newApp(screen tcell.Screen, s *sim.Sim, source *levels.Source, store *savedata.Store, palette *prefabs.PaletteSpec, logger *slog.Logger) *app {
	if logger == nil {
		logger = slog.Default()
	}
	names, err := source.Names()
	if err != nil {
		logger.Warn("listing levels failed", "error", err)
	}
	return &app{
		screen:  screen,
		sim:     s,
		source:  source,
		store:   store,
		palette: palette,
		logger:  logger,
		names:   names,
	}
}

// run drives the simulation at the given rate until ctx ends or the player
// quits.
func (a *app) run(ctx context.Context, tps int) {
	events := make(chan tcell.Event, 16)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				a.screen.Sync()
			case *tcell.EventKey:
				if a.command(a.keys.apply(ev)) {
					return
				}
			}
		case <-ticker.C:
			a.step()
			a.draw()
		}
	}
}

// command handles a non-movement key and reports whether to quit.
func (a *app) command(c command) bool {
	switch c {
	case cmdQuit:
		return true
	case cmdRestart:
		if a.sim.State().Terminal() {
			a.keys.reset()
			a.sim.Restart()
		}
	case cmdNext:
		if a.sim.State().Terminal() {
			a.keys.reset()
			a.sim.Load(a.nextLevel())
		}
	case cmdDebug:
		a.debug = !a.debug
	}
	return false
}

func (a *app) step() {
	res := a.sim.Tick(a.keys.next())
	if res.State == sim.Playing {
		a.levelTicks++
	}

	for _, evt := range a.sim.Events().Drain() {
		switch evt.Kind {
		case sim.EventStateChanged:
			change, _ := evt.Data.(sim.StateChange)
			a.logger.Debug("state changed", "from", change.From.String(), "to", change.To.String())
			switch change.To {
			case sim.Playing:
				a.levelTicks = 0
				a.status = ""
			case sim.Won, sim.Dead:
				a.record()
			}
		case sim.EventLoadFailed:
			if failure, ok := evt.Data.(sim.LoadFailure); ok {
				a.status = fmt.Sprintf("load %s: %v", failure.Level, failure.Err)
			}
		}
	}
}

func (a *app) record() {
	res, ok := savedata.FromSim(a.sim, a.levelTicks)
	if !ok || a.store == nil {
		return
	}
	if _, err := a.store.Save(res); err != nil {
		a.logger.Warn("saving run failed", "error", err)
	}
}

func (a *app) nextLevel() string {
	if len(a.names) == 0 {
		return a.sim.LevelName()
	}
	current, _ := a.source.Resolve(a.sim.LevelName())
	for i, name := range a.names {
		if name == current {
			return a.names[(i+1)%len(a.names)]
		}
	}
	return a.names[0]
}

func (a *app) style(kind grid.Kind) tcell.Style {
	fallback := map[grid.Kind]tcell.Color{
		grid.Grass:      tcell.ColorGreen,
		grid.GrassLeft:  tcell.ColorDarkGreen,
		grid.GrassRight: tcell.ColorDarkGreen,
		grid.Wall:       tcell.ColorGray,
		grid.Key:        tcell.ColorYellow,
	}[kind]
	style := tcell.StyleDefault.Foreground(fallback)
	if a.palette != nil {
		if c := a.palette.TileColor(kind, nil); c != nil {
			style = style.Foreground(tcell.FromImageColor(c))
		}
	}
	return style
}

func (a *app) playerStyle() tcell.Style {
	var fallback color.Color = color.NRGBA{R: 0xff, G: 0x77, B: 0xa8, A: 0xff}
	if a.palette != nil {
		fallback = a.palette.Character.Or(fallback)
	}
	return tcell.StyleDefault.Foreground(tcell.FromImageColor(fallback)).Bold(true)
}

// origin returns the terminal cell of tile (0,0) so the map is centered.
func (a *app) origin(g *grid.Grid) (int, int) {
	w, h := a.screen.Size()
	x := (w - g.Width()*cellWidth) / 2
	y := (h - g.Height()) / 2
	if x < 0 {
		x = 0
	}
	if y < 1 {
		y = 1
	}
	return x, y
}

func (a *app) draw() {
	a.screen.Clear()
	defer a.screen.Show()

	white := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	fall := a.sim.Fall()
	a.putText(0, 0, fmt.Sprintf("%s [%s] fall %.0f/%.0f", a.sim.LevelName(), a.sim.State(), fall.Accumulated(), fall.Threshold()), white)

	lvl := a.sim.Level()
	if lvl == nil || lvl.Grid == nil {
		a.putCentered(1, "loading...", white)
		return
	}
	g := lvl.Grid
	ox, oy := a.origin(g)

	for i, code := range g.TileCodes() {
		kind := grid.Kind(code)
		row, col := i/g.Width(), i%g.Width()
		a.putGlyph(ox+col*cellWidth, oy+row, glyphs[kind], a.style(kind))
	}

	c := a.sim.Character()
	p := g.ScreenToTile(c.Center())
	if _, ok := g.At(p); ok {
		a.putGlyph(ox+p.Column*cellWidth, oy+p.Row, playerGlyph, a.playerStyle())
	}

	_, h := a.screen.Size()
	switch a.sim.State() {
	case sim.Won:
		a.putCentered(h-2, fmt.Sprintf("🔑 Key found in %d ticks! r: restart  n: next  q: quit", a.levelTicks), white.Foreground(tcell.ColorYellow))
	case sim.Dead:
		a.putCentered(h-2, fmt.Sprintf("You fell %.0f units. r: restart  n: next  q: quit", fall.Longest()), white.Foreground(tcell.ColorRed))
	}
	if a.status != "" {
		a.putCentered(h-1, a.status, white.Foreground(tcell.ColorRed))
	}
	if a.debug {
		a.putText(0, 1, fmt.Sprintf("pos (%.1f, %.1f) vel (%.1f, %.1f) tile %s", c.Position.X, c.Position.Y, c.Velocity.X, c.Velocity.Y, p), white)
	}
}

// putGlyph writes glyph and pads it to cellWidth columns.
func (a *app) putGlyph(x, y int, glyph string, style tcell.Style) {
	col := x
	for _, r := range glyph {
		a.screen.SetContent(col, y, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
	for ; col < x+cellWidth; col++ {
		a.screen.SetContent(col, y, ' ', nil, style)
	}
}

func (a *app) putText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (a *app) putCentered(y int, s string, style tcell.Style) {
	w, _ := a.screen.Size()
	x := (w - runewidth.StringWidth(s)) / 2
	if x < 0 {
		x = 0
	}
	a.putText(x, y, s, style)
}
