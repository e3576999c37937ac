package sim

import (
	"errors"
	"fmt"

	"github.com/milk9111/tilefall/grid"
)

var ErrInvalidTuning = errors.New("sim: invalid tuning")

// Tuning holds the movement constants. Units are screen units per tick.
type Tuning struct {
	TileSize           float64
	MoveSpeed          float64
	JumpImpulse        float64
	Gravity            float64
	FallDeathThreshold float64
	Nudge              float64
	HitboxWidth        float64
	HitboxHeight       float64
}

// DefaultTuning returns the arcade defaults: 16 unit tiles, 10 units/tick
// run speed, 15 units/tick jump, 1 unit/tick^2 gravity, death at 150 units
// of accumulated fall.
func DefaultTuning() Tuning {
	return Tuning{
		TileSize:           grid.DefaultTileSize,
		MoveSpeed:          10,
		JumpImpulse:        15,
		Gravity:            1,
		FallDeathThreshold: 150,
		Nudge:              1,
		HitboxWidth:        grid.DefaultTileSize,
		HitboxHeight:       grid.DefaultTileSize,
	}
}

func (t Tuning) Validate() error {
	switch {
	case t.TileSize <= 0:
		return fmt.Errorf("%w: tile size %.2f", ErrInvalidTuning, t.TileSize)
	case t.MoveSpeed < 0 || t.JumpImpulse < 0 || t.Gravity < 0 || t.Nudge < 0:
		return fmt.Errorf("%w: negative movement constant", ErrInvalidTuning)
	case t.FallDeathThreshold <= 0:
		return fmt.Errorf("%w: fall threshold %.2f", ErrInvalidTuning, t.FallDeathThreshold)
	case t.HitboxWidth <= 0 || t.HitboxHeight <= 0:
		return fmt.Errorf("%w: hitbox %.2fx%.2f", ErrInvalidTuning, t.HitboxWidth, t.HitboxHeight)
	case t.HitboxWidth > t.TileSize || t.HitboxHeight > t.TileSize:
		return fmt.Errorf("%w: hitbox larger than tile", ErrInvalidTuning)
	}
	return nil
}
