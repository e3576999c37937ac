package sim

// FallTracker sums downward velocity while airborne and decides on landing
// whether the fall was fatal.
type FallTracker struct {
	threshold   float64
	accumulated float64
	longest     float64
}

func NewFallTracker(threshold float64) *FallTracker {
	return &FallTracker{threshold: threshold}
}

// Observe records the vertical velocity of one airborne tick. Rising and
// resting velocities are ignored.
func (f *FallTracker) Observe(vy float64) {
	if f == nil || vy >= 0 {
		return
	}
	f.accumulated -= vy
	if f.accumulated > f.longest {
		f.longest = f.accumulated
	}
}

// Land reports whether the fall that just ended reached the threshold, then
// clears the accumulator.
func (f *FallTracker) Land() bool {
	if f == nil {
		return false
	}
	fatal := f.accumulated >= f.threshold
	f.accumulated = 0
	return fatal
}

func (f *FallTracker) Accumulated() float64 {
	if f == nil {
		return 0
	}
	return f.accumulated
}

// Longest is the largest accumulated fall since the last Reset.
func (f *FallTracker) Longest() float64 {
	if f == nil {
		return 0
	}
	return f.longest
}

func (f *FallTracker) Threshold() float64 {
	if f == nil {
		return 0
	}
	return f.threshold
}

func (f *FallTracker) SetThreshold(threshold float64) {
	if f == nil {
		return
	}
	f.threshold = threshold
}

func (f *FallTracker) Reset() {
	if f == nil {
		return
	}
	f.accumulated = 0
	f.longest = 0
}
