package sim

// Input is the per-tick control snapshot produced by a host.
type Input struct {
	Left  bool
	Right bool
	// JumpPressed is true only on the tick the jump key went down.
	JumpPressed bool
	// Released is true on the tick any horizontal key went up. It forces the
	// horizontal velocity to zero even if the other key is still held.
	Released bool
}
