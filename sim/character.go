package sim

import "github.com/jakecoffman/cp"

// Character is the single moving actor. Position is the bottom-left corner
// of its hitbox.
type Character struct {
	Position cp.Vector
	Velocity cp.Vector
	Width    float64
	Height   float64
}

// BB returns the character's screen-space hitbox.
func (c Character) BB() cp.BB {
	return cp.BB{L: c.Position.X, B: c.Position.Y, R: c.Position.X + c.Width, T: c.Position.Y + c.Height}
}

// Center is the midpoint of the hitbox.
func (c Character) Center() cp.Vector {
	return c.Position.Add(cp.Vector{X: c.Width / 2, Y: c.Height / 2})
}
