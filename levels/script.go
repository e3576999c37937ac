package levels

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tilefall/grid"
)

// maxScriptAllocs bounds the objects a level script may allocate.
const maxScriptAllocs = 1 << 20

// scriptModules are the Tengo modules a level script may import. Scripts can
// come from disk, so nothing that touches files or the process is offered.
var scriptModules = []string{"math", "text", "fmt", "rand"}

// DecodeScript runs a Tengo level script. The script must define the globals
// width, height, tiles, start_row and start_column; tiles holds numeric
// codes or kind names.
func DecodeScript(ctx context.Context, src []byte) (Document, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(scriptModules...))
	script.SetMaxAllocs(maxScriptAllocs)

	compiled, err := script.RunContext(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("levels: run script: %w", err)
	}

	for _, name := range []string{"width", "height", "tiles", "start_row", "start_column"} {
		if !compiled.IsDefined(name) {
			return Document{}, fmt.Errorf("levels: run script: global %q not defined", name)
		}
	}

	doc := Document{
		Size: grid.Size{
			Width:  compiled.Get("width").Int(),
			Height: compiled.Get("height").Int(),
		},
		Start: grid.Position{
			Row:    compiled.Get("start_row").Int(),
			Column: compiled.Get("start_column").Int(),
		},
	}

	raw := compiled.Get("tiles").Array()
	doc.Tiles = make([]Tag, len(raw))
	for i, v := range raw {
		kind, err := scriptKind(v)
		if err != nil {
			return Document{}, fmt.Errorf("levels: run script: tile %d: %w", i, err)
		}
		doc.Tiles[i] = Tag(kind)
	}
	return doc, nil
}

func scriptKind(v any) (grid.Kind, error) {
	switch t := v.(type) {
	case int64:
		return grid.KindFromCode(int(t))
	case string:
		return grid.ParseKind(t)
	default:
		return grid.Air, fmt.Errorf("%w: %T", ErrUnknownKind, v)
	}
}
