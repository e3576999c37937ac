package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/tilefall/common"
	"github.com/milk9111/tilefall/levels"
	"github.com/milk9111/tilefall/prefabs"
	"github.com/milk9111/tilefall/savedata"
	"github.com/milk9111/tilefall/sim"
)

type GameConfig struct {
	Level  string
	Debug  bool
	Watch  bool
	Logger *slog.Logger
}

type Game struct {
	frames int
	logger *slog.Logger
	debug  bool

	sim      *sim.Sim
	source   *levels.Source
	loader   *levels.Loader
	input    *Input
	renderer *renderer
	overlay  *Overlay
	watcher  *prefabs.Watcher
	store    *savedata.Store

	levelNames []string
	levelTicks uint64
	recorded   bool
	status     string
}

func NewGame(cfg GameConfig) (*Game, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tuning, err := prefabs.LoadTuning()
	if err != nil {
		return nil, err
	}
	palette, err := prefabs.LoadPalette()
	if err != nil {
		logger.Warn("palette unavailable, using defaults", "error", err)
	}

	source := levels.NewSource(nil, tuning.TileSize)
	if cfg.Watch {
		if info, err := os.Stat("levels"); err == nil && info.IsDir() {
			source = levels.NewSource(os.DirFS("levels"), tuning.TileSize)
		}
	}
	names, err := source.Names()
	if err != nil {
		return nil, err
	}

	loader := levels.NewLoader(source, logger.With("component", "loader"))
	s, err := sim.New(tuning, loader, logger.With("component", "sim"))
	if err != nil {
		return nil, err
	}

	store, err := savedata.Open(logger.With("component", "savedata"))
	if err != nil {
		logger.Warn("run results will not be saved", "error", err)
	}

	g := &Game{
		logger:     logger,
		debug:      cfg.Debug,
		sim:        s,
		source:     source,
		loader:     loader,
		input:      NewInput(),
		renderer:   newRenderer(palette),
		store:      store,
		levelNames: names,
	}
	g.overlay = NewOverlay(palette, g.restart, g.nextLevel)

	if cfg.Watch {
		w, err := prefabs.NewWatcher(existingDirs("prefabs", "levels")...)
		if err != nil {
			logger.Warn("hot reload disabled", "error", err)
		} else {
			g.watcher = w
		}
	}

	level := cfg.Level
	if level == "" && len(names) > 0 {
		level = names[0]
	}
	s.Load(level)
	return g, nil
}

func (g *Game) Update() error {
	g.frames++
	g.drainWatcher()

	if g.sim.State().Terminal() {
		switch {
		case g.input.RestartPressed():
			g.restart()
		case g.input.NextPressed():
			g.nextLevel()
		}
	}

	res := g.sim.Tick(g.input.Poll())
	if res.State == sim.Playing {
		g.levelTicks++
		if lvl := g.sim.Level(); lvl != nil {
			g.renderer.cam.follow(lvl.Grid, g.sim.Character().Center())
		}
	}

	g.handleEvents()
	g.overlay.Update()
	return nil
}

func (g *Game) handleEvents() {
	for _, evt := range g.sim.Events().Drain() {
		switch evt.Kind {
		case sim.EventStateChanged:
			change, _ := evt.Data.(sim.StateChange)
			g.logger.Debug("state changed", "from", change.From.String(), "to", change.To.String(), "tick", evt.Tick)
			switch change.To {
			case sim.Playing:
				g.levelTicks = 0
				g.recorded = false
				g.status = ""
				g.overlay.Hide()
				if lvl := g.sim.Level(); lvl != nil {
					g.renderer.cam.fit(lvl.Grid, g.sim.Character().Center())
				}
			case sim.Won, sim.Dead:
				g.finish(change.To)
			}
		case sim.EventLoadFailed:
			if failure, ok := evt.Data.(sim.LoadFailure); ok {
				g.status = fmt.Sprintf("could not load %s: %v", failure.Level, failure.Err)
			}
		case sim.EventLanded:
			if landing, ok := evt.Data.(sim.Landing); ok && g.debug {
				g.logger.Debug("landed", "distance", landing.Distance, "fatal", landing.Fatal)
			}
		}
	}
}

func (g *Game) finish(state sim.State) {
	detail := fmt.Sprintf("%s in %d ticks, longest fall %.0f", g.sim.LevelName(), g.levelTicks, g.sim.Fall().Longest())
	g.overlay.Show(state, detail)
	if g.recorded {
		return
	}
	g.recorded = true
	if res, ok := savedata.FromSim(g.sim, g.levelTicks); ok && g.store != nil {
		if _, err := g.store.Save(res); err != nil {
			g.logger.Warn("saving run failed", "error", err)
		}
	}
}

func (g *Game) restart() {
	g.overlay.Hide()
	g.sim.Restart()
}

func (g *Game) nextLevel() {
	if len(g.levelNames) == 0 {
		g.restart()
		return
	}
	current, _ := g.source.Resolve(g.sim.LevelName())
	next := g.levelNames[0]
	for i, name := range g.levelNames {
		if name == current {
			next = g.levelNames[(i+1)%len(g.levelNames)]
			break
		}
	}
	g.overlay.Hide()
	g.sim.Load(next)
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err := <-g.watcher.Errors:
			if err != nil {
				g.logger.Warn("watcher error", "error", err)
			}
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	g.logger.Info("file changed", "path", change.Path)
	switch change.Kind {
	case prefabs.ChangeSpec:
		switch filepath.Base(change.Path) {
		case prefabs.PhysicsFile:
			tuning, err := prefabs.LoadTuning()
			if err != nil {
				g.logger.Warn("tuning reload failed", "error", err)
				return
			}
			if tuning.TileSize != g.source.TileSize() {
				g.source = g.source.WithTileSize(tuning.TileSize)
				g.loader.SetSource(g.source)
			}
			if err := g.sim.SetTuning(tuning); err != nil {
				g.logger.Warn("tuning reload failed", "error", err)
			}
		case prefabs.PaletteFile:
			palette, err := prefabs.LoadPalette()
			if err != nil {
				g.logger.Warn("palette reload failed", "error", err)
				return
			}
			g.renderer.setPalette(palette)
			g.overlay = NewOverlay(palette, g.restart, g.nextLevel)
		}
	case prefabs.ChangeLevel:
		if names, err := g.source.Names(); err == nil {
			g.levelNames = names
		}
		current, err := g.source.Resolve(g.sim.LevelName())
		base := filepath.Base(change.Path)
		if err != nil || base == current || filepath.Ext(base) == ".tsx" {
			g.sim.Load(g.sim.LevelName())
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.draw(screen, g.sim, g.debug)
	g.overlay.Draw(screen)

	hud := fmt.Sprintf("%s  [%s]  fall %.0f/%.0f", g.sim.LevelName(), g.sim.State(), g.sim.Fall().Accumulated(), g.sim.Fall().Threshold())
	if g.debug {
		c := g.sim.Character()
		hud += fmt.Sprintf("\nFrames: %d    FPS: %.2f\npos (%.1f, %.1f) vel (%.1f, %.1f)", g.frames, ebiten.ActualFPS(), c.Position.X, c.Position.Y, c.Velocity.X, c.Velocity.Y)
	}
	if g.status != "" {
		hud += "\n" + g.status
	}
	ebitenutil.DebugPrint(screen, hud)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close stops background work. Safe to call once the run loop has returned.
func (g *Game) Close() {
	g.loader.Close()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func existingDirs(dirs ...string) []string {
	var out []string
	for _, d := range dirs {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			out = append(out, d)
		}
	}
	return out
}
