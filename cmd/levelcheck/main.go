// Command levelcheck validates level files and prints their tile codes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/tilefall/grid"
	"github.com/milk9111/tilefall/levels"
)

var errCheckFailed = errors.New("levelcheck: one or more levels failed")

type options struct {
	codes  bool
	export string
}

func main() {
	dir := flag.String("dir", "", "directory to read levels from (default: embedded levels)")
	codes := flag.Bool("codes", false, "print the tile code grid of every level")
	export := flag.String("export", "", "write each valid level as JSON into this directory")
	tileSize := flag.Float64("tile", grid.DefaultTileSize, "tile size in screen units")
	flag.Parse()

	source := levels.NewSource(nil, *tileSize)
	if *dir != "" {
		source = levels.NewSource(os.DirFS(*dir), *tileSize)
	}

	names := flag.Args()
	if len(names) == 0 {
		var err error
		names, err = source.Names()
		if err != nil {
			log.Fatal(err)
		}
	}

	if err := check(context.Background(), os.Stdout, source, names, options{codes: *codes, export: *export}); err != nil {
		log.Fatal(err)
	}
}

func check(ctx context.Context, w io.Writer, source *levels.Source, names []string, opts options) error {
	failed := 0
	for _, name := range names {
		lvl, err := source.Load(ctx, name)
		if err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", name, err)
			continue
		}

		g := lvl.Grid
		keys := g.Find(grid.Key)
		fmt.Fprintf(w, "ok   %s %dx%d start %s keys %d\n", name, g.Width(), g.Height(), lvl.Start, len(keys))
		if len(keys) == 0 {
			fmt.Fprintf(w, "warn %s: no key tile, level cannot be won\n", name)
		}
		if g.SolidAt(lvl.Start.Row, lvl.Start.Column) {
			fmt.Fprintf(w, "warn %s: start tile %s is solid\n", name, lvl.Start)
		}

		if opts.codes {
			writeCodes(w, g)
		}
		if opts.export != "" {
			if err := export(opts.export, name, levels.FromLevel(lvl)); err != nil {
				failed++
				fmt.Fprintf(w, "FAIL %s: %v\n", name, err)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errCheckFailed, failed, len(names))
	}
	return nil
}

func writeCodes(w io.Writer, g *grid.Grid) {
	codes := g.TileCodes()
	width := g.Width()
	for row := 0; row < g.Height(); row++ {
		line := make([]string, width)
		for col := 0; col < width; col++ {
			line[col] = fmt.Sprint(codes[row*width+col])
		}
		fmt.Fprintf(w, "     %s\n", strings.Join(line, " "))
	}
}

func export(dir, name string, doc levels.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("levelcheck: export %s: %w", name, err)
	}
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("levelcheck: export %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(dir, stem+".json"), append(data, '\n'), 0o644)
}
