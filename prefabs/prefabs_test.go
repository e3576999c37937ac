package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/tilefall/grid"
	"github.com/milk9111/tilefall/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedPhysicsMatchesDefaults(t *testing.T) {
	tuning, err := LoadTuning()
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultTuning(), tuning)
}

func TestPhysicsSpecTuning(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want func(*sim.Tuning)
	}{
		{"empty_keeps_defaults", `name: empty`, func(*sim.Tuning) {}},
		{"partial_override", "move_speed: 6\ngravity: 2", func(t *sim.Tuning) {
			t.MoveSpeed = 6
			t.Gravity = 2
		}},
		{"hitbox", "hitbox:\n  width: 12\n  height: 14", func(t *sim.Tuning) {
			t.HitboxWidth = 12
			t.HitboxHeight = 14
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := DecodeSpec[PhysicsSpec]([]byte(c.yaml))
			require.NoError(t, err)
			want := sim.DefaultTuning()
			c.want(&want)
			assert.Equal(t, want, spec.Tuning())
		})
	}
}

type colorDoc struct {
	C *YAMLColor `yaml:"c"`
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{`c: "#ff0000"`, color.NRGBA{R: 255, A: 255}, false},
		{`c: "00ff0080"`, color.NRGBA{G: 255, A: 128}, false},
		{`c: "#fff"`, nil, true},
		{`c: "#zz0000"`, nil, true},
		{"c: [1, 2]", nil, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			spec, err := DecodeSpec[colorDoc]([]byte(c.in))
			if c.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, spec.C.Color)
		})
	}
}

func TestPaletteTileColor(t *testing.T) {
	p, err := LoadPalette()
	require.NoError(t, err)

	fallback := color.Black
	assert.Equal(t, color.NRGBA{R: 0x5f, G: 0x57, B: 0x4f, A: 0xff}, p.TileColor(grid.Wall, fallback))
	assert.Equal(t, fallback, p.TileColor(grid.Air, fallback))

	var nilPalette *PaletteSpec
	assert.Equal(t, fallback, nilPalette.TileColor(grid.Key, fallback))
	assert.InDelta(t, 0.6, p.Overlay.FadeSecs, 1e-9)
}

func TestCleanPrefabPath(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"physics.yaml":         "physics.yaml",
		"prefabs/physics.yaml": "physics.yaml",
	}
	for in, want := range cases {
		if got := cleanPrefabPath(in); got != want {
			t.Fatalf("cleanPrefabPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"prefabs/physics.yaml", ChangeSpec, true},
		{"prefabs/palette.YML", ChangeSpec, true},
		{"levels/meadow.json", ChangeLevel, true},
		{"levels/tower.tmx", ChangeLevel, true},
		{"levels/tiles.tsx", ChangeLevel, true},
		{"levels/cavern.tengo", ChangeLevel, true},
		{"levels/notes.txt", 0, false},
		{"levels/.meadow.json.swp", 0, false},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			kind, ok := classify(c.path)
			assert.Equal(t, c.ok, ok)
			if ok {
				assert.Equal(t, c.kind, kind)
			}
		})
	}
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "meadow.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))

	select {
	case change := <-w.Events:
		assert.Equal(t, target, change.Path)
		assert.Equal(t, ChangeLevel, change.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}
