package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/tilefall/grid"
	"github.com/milk9111/tilefall/sim"
	"gopkg.in/yaml.v3"
)

const (
	PhysicsFile = "physics.yaml"
	PaletteFile = "palette.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	spec, err := DecodeSpec[T](data)
	if err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func DecodeSpec[T any](data []byte) (T, error) {
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

type PhysicsSpec struct {
	Name               string     `yaml:"name"`
	TileSize           float64    `yaml:"tile_size"`
	MoveSpeed          float64    `yaml:"move_speed"`
	JumpImpulse        float64    `yaml:"jump_impulse"`
	Gravity            float64    `yaml:"gravity"`
	FallDeathThreshold float64    `yaml:"fall_death_threshold"`
	Nudge              float64    `yaml:"nudge"`
	Hitbox             HitboxSpec `yaml:"hitbox"`
}

type HitboxSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Tuning converts the spec into simulation constants. Fields left at zero
// keep their default.
func (s PhysicsSpec) Tuning() sim.Tuning {
	t := sim.DefaultTuning()
	set := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	set(&t.TileSize, s.TileSize)
	set(&t.MoveSpeed, s.MoveSpeed)
	set(&t.JumpImpulse, s.JumpImpulse)
	set(&t.Gravity, s.Gravity)
	set(&t.FallDeathThreshold, s.FallDeathThreshold)
	set(&t.Nudge, s.Nudge)
	set(&t.HitboxWidth, s.Hitbox.Width)
	set(&t.HitboxHeight, s.Hitbox.Height)
	return t
}

// LoadTuning reads physics.yaml and validates the result.
func LoadTuning() (sim.Tuning, error) {
	spec, err := LoadSpec[PhysicsSpec](PhysicsFile)
	if err != nil {
		return sim.Tuning{}, err
	}
	t := spec.Tuning()
	if err := t.Validate(); err != nil {
		return sim.Tuning{}, fmt.Errorf("prefabs: %s: %w", PhysicsFile, err)
	}
	return t, nil
}

type PaletteSpec struct {
	Name       string                `yaml:"name"`
	Background *YAMLColor            `yaml:"background"`
	Character  *YAMLColor            `yaml:"character"`
	Tiles      map[string]*YAMLColor `yaml:"tiles"`
	Overlay    OverlaySpec           `yaml:"overlay"`
}

type OverlaySpec struct {
	Won      *YAMLColor `yaml:"won"`
	Dead     *YAMLColor `yaml:"dead"`
	Text     *YAMLColor `yaml:"text"`
	FadeSecs float64    `yaml:"fade_secs"`
}

func LoadPalette() (*PaletteSpec, error) {
	spec, err := LoadSpec[PaletteSpec](PaletteFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// TileColor returns the configured color for kind, or fallback when the
// palette has none.
func (p *PaletteSpec) TileColor(kind grid.Kind, fallback color.Color) color.Color {
	if p == nil {
		return fallback
	}
	return p.Tiles[kind.String()].Or(fallback)
}

type YAMLColor struct {
	color.Color
}

// Or returns c, or fallback when c is unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
