// Command tileterm plays tilefall levels in a terminal.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/tilefall/levels"
	"github.com/milk9111/tilefall/prefabs"
	"github.com/milk9111/tilefall/savedata"
	"github.com/milk9111/tilefall/sim"
)

func main() {
	levelName := flag.String("level", "meadow", "level name (extension optional)")
	dir := flag.String("dir", "", "read levels from this directory instead of the embedded set")
	tps := flag.Int("tps", 30, "simulation ticks per second")
	logPath := flag.String("log", "", "write logs to this file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	tuning, err := prefabs.LoadTuning()
	if err != nil {
		log.Fatal(err)
	}
	palette, err := prefabs.LoadPalette()
	if err != nil {
		logger.Warn("palette unavailable", "error", err)
	}

	source := levels.NewSource(nil, tuning.TileSize)
	if *dir != "" {
		source = levels.NewSource(os.DirFS(*dir), tuning.TileSize)
	}
	loader := levels.NewLoader(source, logger)
	defer loader.Close()

	s, err := sim.New(tuning, loader, logger)
	if err != nil {
		log.Fatal(err)
	}

	store, err := savedata.Open(logger)
	if err != nil {
		logger.Warn("run results will not be saved", "error", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("init screen: %v", err)
	}
	defer screen.Fini()

	if *tps <= 0 {
		*tps = 30
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(screen, s, source, store, palette, logger)
	s.Load(*levelName)
	a.run(ctx, *tps)
}
