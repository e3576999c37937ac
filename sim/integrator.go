package sim

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilefall/grid"
)

// Step describes what happened to the character during one integration.
type Step struct {
	Grounded   bool
	Jumped     bool
	Landed     bool
	Fatal      bool
	Blocked    bool
	HitCeiling bool
	// Fell is the fall accumulated before landing, set only when Landed is
	// true.
	Fell float64
}

// Integrator advances a Character by one tick against a Probe.
type Integrator struct {
	tuning Tuning
}

func NewIntegrator(t Tuning) *Integrator {
	return &Integrator{tuning: t}
}

func (in *Integrator) SetTuning(t Tuning) {
	if in == nil {
		return
	}
	in.tuning = t
}

// Step runs horizontal control, jump, gravity, integration and the ceiling
// clamp, in that order. Everything before integration reads the position
// the character had at the start of the tick. The fall tracker sees the
// velocity of every airborne tick, including the one whose move is cut
// short by the floor.
func (in *Integrator) Step(c *Character, probe *grid.Probe, input Input, fall *FallTracker) Step {
	var out Step
	if in == nil || c == nil || probe == nil {
		return out
	}

	out.Blocked = in.horizontal(c, probe, input)

	if input.JumpPressed && probe.CollidesBottom(c.Position) {
		c.Velocity.Y += in.tuning.JumpImpulse
		out.Jumped = true
	}

	out.Grounded = probe.Grounded(c.Position)
	if out.Grounded && c.Velocity.Y <= 0 {
		c.Velocity.Y = 0
		if fall.Accumulated() > 0 {
			out.Landed = true
			out.Fell = fall.Accumulated()
		}
		out.Fatal = fall.Land()
	} else {
		c.Velocity.Y -= in.tuning.Gravity
		fall.Observe(c.Velocity.Y)
	}

	in.integrate(c, probe)

	if c.Velocity.Y > 0 && probe.CollidesTop(c.Position) {
		c.Velocity.Y = 0
		out.HitCeiling = true
	}
	return out
}

func (in *Integrator) horizontal(c *Character, probe *grid.Probe, input Input) bool {
	// A release wins over any key still held for this one tick.
	if input.Released {
		c.Velocity.X = 0
		return false
	}

	switch {
	case input.Right && !input.Left:
		if !probe.CollidesRight(c.Position) {
			c.Velocity.X = in.tuning.MoveSpeed
			return false
		}
		c.Velocity.X = 0
		if probe.EmbeddedRight(c.Position) {
			c.Position.X -= in.tuning.Nudge
		}
		return true
	case input.Left && !input.Right:
		if !probe.CollidesLeft(c.Position) {
			c.Velocity.X = -in.tuning.MoveSpeed
			return false
		}
		c.Velocity.X = 0
		if probe.EmbeddedLeft(c.Position) {
			c.Position.X += in.tuning.Nudge
		}
		return true
	default:
		c.Velocity.X = 0
		return false
	}
}

// integrate moves one axis at a time, X first, clamping each displacement at
// the first wall in its path so no velocity can carry the hitbox through a
// tile.
func (in *Integrator) integrate(c *Character, probe *grid.Probe) {
	dx := c.Velocity.X
	if dx > 0 {
		dx, _ = probe.SweepRight(c.Position, dx)
	} else if dx < 0 {
		dx, _ = probe.SweepLeft(c.Position, dx)
	}
	c.Position = c.Position.Add(cp.Vector{X: dx})

	dy := c.Velocity.Y
	if dy > 0 {
		dy, _ = probe.SweepUp(c.Position, dy)
	} else if dy < 0 {
		dy, _ = probe.SweepDown(c.Position, dy)
	}
	c.Position = c.Position.Add(cp.Vector{Y: dy})
}
