package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilefall/grid"
)

var ErrStartOutOfRange = errors.New("sim: start tile outside grid")

// Level is a parsed level ready to be played.
type Level struct {
	Name  string
	Grid  *grid.Grid
	Start grid.Position
}

// LoadResult is what a Loader delivers once a request finishes.
type LoadResult struct {
	Level Level
	Err   error
}

// Loader resolves level names asynchronously. Poll must not block.
type Loader interface {
	Request(name string)
	Poll() (LoadResult, bool)
}

// TickResult is the observable outcome of one tick.
type TickResult struct {
	Tick     uint64
	State    State
	Position cp.Vector
	Velocity cp.Vector
	Step     Step
}

// Sim is the simulation context. It owns the grid, the character, the fall
// tracker and the progress state, and is driven one Tick per frame by a
// single goroutine.
type Sim struct {
	logger     *slog.Logger
	tuning     Tuning
	loader     Loader
	integrator *Integrator
	fall       *FallTracker
	progress   *Progress
	events     EventQueue

	character Character
	level     *Level
	probe     *grid.Probe
	levelName string
	loadErr   error
	tick      uint64
}

// New creates a Sim in the Loading state. loader may be nil when levels are
// delivered with SetLevel.
func New(t Tuning, loader Loader, logger *slog.Logger) (*Sim, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sim{
		logger:     logger,
		tuning:     t,
		loader:     loader,
		integrator: NewIntegrator(t),
		fall:       NewFallTracker(t.FallDeathThreshold),
		character:  Character{Width: t.HitboxWidth, Height: t.HitboxHeight},
	}
	s.progress = NewProgress(&s.events)
	return s, nil
}

// Load asks the loader for a level by name and returns to Loading.
func (s *Sim) Load(name string) {
	if s == nil {
		return
	}
	s.levelName = name
	s.loadErr = nil
	s.progress.Reload(s.tick)
	if s.loader == nil {
		s.logger.Warn("sim: no loader configured", "level", name)
		return
	}
	s.logger.Info("sim: level requested", "level", name)
	s.loader.Request(name)
}

// Restart reloads the current level, typically after Won or Dead.
func (s *Sim) Restart() {
	if s == nil {
		return
	}
	if s.levelName == "" && s.level != nil {
		lvl := *s.level
		s.progress.Reload(s.tick)
		if err := s.SetLevel(lvl); err != nil {
			s.logger.Error("sim: restart failed", "error", err)
		}
		return
	}
	s.Load(s.levelName)
}

// SetLevel delivers a level synchronously. The Sim must be in Loading; on
// error it stays there.
func (s *Sim) SetLevel(lvl Level) error {
	if s == nil {
		return nil
	}
	if s.progress.State() != Loading {
		return fmt.Errorf("sim: set level %q: state is %s", lvl.Name, s.progress.State())
	}
	if lvl.Grid == nil {
		return s.failLoad(lvl.Name, fmt.Errorf("sim: set level %q: %w", lvl.Name, grid.ErrInvalidSize))
	}
	if _, ok := lvl.Grid.At(lvl.Start); !ok {
		return s.failLoad(lvl.Name, fmt.Errorf("sim: set level %q: %w: %s", lvl.Name, ErrStartOutOfRange, lvl.Start))
	}
	probe, err := grid.NewProbe(lvl.Grid, s.tuning.HitboxWidth, s.tuning.HitboxHeight)
	if err != nil {
		return s.failLoad(lvl.Name, fmt.Errorf("sim: set level %q: %w", lvl.Name, err))
	}

	s.level = &lvl
	s.probe = probe
	s.loadErr = nil
	s.character.Position = lvl.Grid.TileToScreen(lvl.Start)
	s.character.Velocity = cp.Vector{}
	s.fall.Reset()
	s.progress.EnterLevel(s.tick)
	s.events.Push(Event{Kind: EventLevelLoaded, Tick: s.tick, Data: lvl.Name})
	s.logger.Info("sim: level loaded", "level", lvl.Name, "size", lvl.Grid.Size(), "start", lvl.Start.String())
	return nil
}

// SetTuning swaps movement constants between ticks. A tile size that no
// longer matches the loaded grid sends the Sim back to Loading and requests
// the current level again; the loader must already build grids at the new
// size.
func (s *Sim) SetTuning(t Tuning) error {
	if s == nil {
		return nil
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if s.level != nil && s.level.Grid.TileSize() != t.TileSize {
		s.applyTuning(t)
		s.level = nil
		s.probe = nil
		s.logger.Info("sim: tile size changed, reloading", "level", s.levelName, "tile_size", t.TileSize)
		s.Load(s.levelName)
		return nil
	}
	if s.level != nil {
		probe, err := grid.NewProbe(s.level.Grid, t.HitboxWidth, t.HitboxHeight)
		if err != nil {
			return fmt.Errorf("sim: set tuning: %w", err)
		}
		s.probe = probe
	}
	s.applyTuning(t)
	return nil
}

func (s *Sim) applyTuning(t Tuning) {
	s.tuning = t
	s.integrator.SetTuning(t)
	s.fall.SetThreshold(t.FallDeathThreshold)
	s.character.Width = t.HitboxWidth
	s.character.Height = t.HitboxHeight
}

// Tick advances the simulation by one step.
func (s *Sim) Tick(input Input) TickResult {
	if s == nil {
		return TickResult{}
	}
	s.tick++

	switch s.progress.State() {
	case Loading:
		s.pollLoader()
		return s.result(Step{})
	case Won, Dead:
		return s.result(Step{})
	}

	step := s.integrator.Step(&s.character, s.probe, input, s.fall)
	if step.Jumped {
		s.events.Push(Event{Kind: EventJumped, Tick: s.tick})
	}
	if step.Landed {
		s.events.Push(Event{Kind: EventLanded, Tick: s.tick, Data: Landing{Distance: step.Fell, Fatal: step.Fatal}})
	}

	if step.Fatal {
		s.progress.Die(s.tick)
	} else if s.probe.NearKind(s.character.Position, grid.Key) {
		s.progress.Win(s.tick)
	}
	return s.result(step)
}

func (s *Sim) pollLoader() {
	if s.loader == nil {
		return
	}
	res, ok := s.loader.Poll()
	if !ok {
		return
	}
	if res.Level.Name != "" && s.levelName != "" && res.Level.Name != s.levelName {
		s.logger.Debug("sim: dropping stale level", "got", res.Level.Name, "want", s.levelName, "error", res.Err)
		return
	}
	if res.Err != nil {
		s.failLoad(res.Level.Name, res.Err)
		return
	}
	_ = s.SetLevel(res.Level)
}

func (s *Sim) failLoad(name string, err error) error {
	s.loadErr = err
	s.events.Push(Event{Kind: EventLoadFailed, Tick: s.tick, Data: LoadFailure{Level: name, Err: err}})
	s.logger.Error("sim: level load failed", "level", name, "error", err)
	return err
}

func (s *Sim) result(step Step) TickResult {
	return TickResult{
		Tick:     s.tick,
		State:    s.progress.State(),
		Position: s.character.Position,
		Velocity: s.character.Velocity,
		Step:     step,
	}
}

// State is safe to read from presentation code between ticks.
func (s *Sim) State() State {
	if s == nil {
		return Loading
	}
	return s.progress.State()
}

func (s *Sim) Character() Character {
	if s == nil {
		return Character{}
	}
	return s.character
}

// Level returns the active level, or nil while nothing has loaded.
func (s *Sim) Level() *Level {
	if s == nil {
		return nil
	}
	return s.level
}

func (s *Sim) LevelName() string {
	if s == nil {
		return ""
	}
	return s.levelName
}

func (s *Sim) Probe() *grid.Probe {
	if s == nil {
		return nil
	}
	return s.probe
}

func (s *Sim) Fall() *FallTracker {
	if s == nil {
		return nil
	}
	return s.fall
}

func (s *Sim) Events() *EventQueue {
	if s == nil {
		return nil
	}
	return &s.events
}

// LoadErr is the error from the most recent failed load, if any.
func (s *Sim) LoadErr() error {
	if s == nil {
		return nil
	}
	return s.loadErr
}

func (s *Sim) Ticks() uint64 {
	if s == nil {
		return 0
	}
	return s.tick
}

func (s *Sim) Tuning() Tuning {
	if s == nil {
		return DefaultTuning()
	}
	return s.tuning
}

// Place moves the character to pos and clears its velocity. Intended for
// hosts and tests that need to stage a scenario.
func (s *Sim) Place(pos cp.Vector) {
	if s == nil {
		return
	}
	s.character.Position = pos
	s.character.Velocity = cp.Vector{}
}
