package levels

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/milk9111/tilefall/sim"
)

// DefaultLoadTimeout caps how long a single level load may run.
const DefaultLoadTimeout = 5 * time.Second

// Loader loads levels on a background goroutine and hands results to the
// simulation through Poll. A new Request cancels the one in flight.
type Loader struct {
	logger  *slog.Logger
	timeout time.Duration
	results chan sim.LoadResult

	mu     sync.Mutex
	source *Source
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLoader(source *Source, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		source:  source,
		logger:  logger,
		timeout: DefaultLoadTimeout,
		results: make(chan sim.LoadResult, 4),
	}
}

// Request starts loading name in the background.
func (l *Loader) Request(name string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	l.cancel = cancel
	source := l.source
	l.mu.Unlock()

	// Results from superseded requests are no longer wanted.
	for drained := false; !drained; {
		select {
		case <-l.results:
		default:
			drained = true
		}
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()

		start := time.Now()
		lvl, err := source.Load(ctx, name)
		if err != nil {
			l.logger.Warn("levels: load failed", "level", name, "error", err)
		} else {
			l.logger.Debug("levels: loaded", "level", name, "took", time.Since(start))
		}

		select {
		case l.results <- sim.LoadResult{Level: lvl, Err: err}:
		case <-ctx.Done():
			l.logger.Debug("levels: load abandoned", "level", name)
		}
	}()
}

// SetSource switches the files later requests read from. A load already in
// flight keeps its old source.
func (l *Loader) SetSource(source *Source) {
	if l == nil || source == nil {
		return
	}
	l.mu.Lock()
	l.source = source
	l.mu.Unlock()
}

// Poll returns the next finished load without blocking.
func (l *Loader) Poll() (sim.LoadResult, bool) {
	if l == nil {
		return sim.LoadResult{}, false
	}
	select {
	case res := <-l.results:
		return res, true
	default:
		return sim.LoadResult{}, false
	}
}

// Close cancels any load in flight and waits for its goroutine.
func (l *Loader) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()
	l.wg.Wait()
}
