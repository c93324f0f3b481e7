// Package timeline turns the engine's song position into a smoothly scrolling
// visual position: a fixed-rate simulation step advances a previous/current
// pair and every render frame interpolates between them.
package timeline

import "time"

const (
	// DefaultTickRate is the fixed simulation rate in ticks per second.
	DefaultTickRate = 64
	// MaxTicksPerFrame caps catch-up work after a long stall.
	MaxTicksPerFrame = 8
)

// TickFromRate converts a rate in Hz to a tick duration.
// Non-positive rates use DefaultTickRate.
func TickFromRate(hz int) time.Duration {
	if hz <= 0 {
		hz = DefaultTickRate
	}
	return time.Second / time.Duration(hz)
}

// FixedStep accumulates variable frame time and releases it as whole fixed
// ticks. What remains is the overstep into the next tick.
type FixedStep struct {
	tick     time.Duration
	overstep time.Duration
}

// NewFixedStep creates a FixedStep with the given tick duration.
func NewFixedStep(tick time.Duration) *FixedStep {
	if tick <= 0 {
		tick = TickFromRate(DefaultTickRate)
	}
	return &FixedStep{tick: tick}
}

// Tick returns the fixed tick duration.
func (f *FixedStep) Tick() time.Duration { return f.tick }

// Advance adds frame time and returns how many fixed ticks are due.
// At most MaxTicksPerFrame ticks are returned; the excess time is dropped.
func (f *FixedStep) Advance(delta time.Duration) int {
	f.overstep += max(delta, 0)
	n := int(f.overstep / f.tick)
	f.overstep -= time.Duration(n) * f.tick
	return min(n, MaxTicksPerFrame)
}

// OverstepFraction returns the fraction of a tick elapsed since the last
// tick boundary, in [0, 1).
func (f *FixedStep) OverstepFraction() float64 {
	return float64(f.overstep) / float64(f.tick)
}
