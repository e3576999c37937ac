// Package savedata persists finished runs between sessions.
package savedata

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/milk9111/tilefall/sim"
	"github.com/quasilyte/gdata"
)

const (
	AppName    = "tilefall"
	resultsKey = "results"
	maxHistory = 50
)

// Backend stores opaque items by key. *gdata.Manager satisfies it.
type Backend interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

type Result struct {
	Level       string    `json:"level"`
	Outcome     string    `json:"outcome"`
	Ticks       uint64    `json:"ticks"`
	LongestFall float64   `json:"longestFall"`
	At          time.Time `json:"at"`
}

// Record is everything kept on disk: recent runs, newest last, and the
// fewest ticks each level has been won in.
type Record struct {
	History []Result          `json:"history"`
	Best    map[string]uint64 `json:"best"`
}

type Store struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
}

// Open creates a store in the per-user data directory.
func Open(logger *slog.Logger) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		return nil, fmt.Errorf("savedata: open: %w", err)
	}
	return NewStore(m, logger), nil
}

func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger, now: time.Now}
}

// Load returns the saved record, or an empty one when nothing was saved yet.
func (s *Store) Load() (Record, error) {
	rec := Record{Best: map[string]uint64{}}
	if s == nil || s.backend == nil {
		return rec, nil
	}
	data, err := s.backend.LoadItem(resultsKey)
	if err != nil {
		return rec, fmt.Errorf("savedata: load: %w", err)
	}
	if len(data) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{Best: map[string]uint64{}}, fmt.Errorf("savedata: parse: %w", err)
	}
	if rec.Best == nil {
		rec.Best = map[string]uint64{}
	}
	return rec, nil
}

// Save appends a finished run. A corrupt record is replaced rather than
// blocking new results.
func (s *Store) Save(r Result) (Record, error) {
	if s == nil || s.backend == nil {
		return Record{}, nil
	}
	if r.At.IsZero() {
		r.At = s.now()
	}

	rec, err := s.Load()
	if err != nil {
		s.logger.Warn("savedata: discarding unreadable record", "error", err)
	}

	rec.History = append(rec.History, r)
	if len(rec.History) > maxHistory {
		rec.History = rec.History[len(rec.History)-maxHistory:]
	}
	if r.Outcome == sim.Won.String() {
		if best, ok := rec.Best[r.Level]; !ok || r.Ticks < best {
			rec.Best[r.Level] = r.Ticks
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("savedata: serialize: %w", err)
	}
	if err := s.backend.SaveItem(resultsKey, data); err != nil {
		return rec, fmt.Errorf("savedata: save: %w", err)
	}
	s.logger.Info("savedata: run saved", "level", r.Level, "outcome", r.Outcome, "ticks", r.Ticks)
	return rec, nil
}

// FromSim captures the result of a run that just reached a terminal state.
// ticks is the number of ticks spent playing the level.
func FromSim(s *sim.Sim, ticks uint64) (Result, bool) {
	state := s.State()
	if !state.Terminal() {
		return Result{}, false
	}
	name := s.LevelName()
	if lvl := s.Level(); name == "" && lvl != nil {
		name = lvl.Name
	}
	return Result{
		Level:       name,
		Outcome:     state.String(),
		Ticks:       ticks,
		LongestFall: s.Fall().Longest(),
	}, true
}
