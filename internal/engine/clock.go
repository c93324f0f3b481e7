package engine

import "time"

// Clock supplies the current instant. The engine measures elapsed playback
// time against it, so tests can drive time by hand.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// playbackClock tracks the instant playback last entered Playing.
type playbackClock struct {
	clock     Clock
	lastStart time.Time
}

// restart marks now as the start of the current playing span.
func (c *playbackClock) restart() {
	c.lastStart = c.clock.Now()
}

// elapsed returns the real time since the last restart, never negative.
func (c *playbackClock) elapsed() time.Duration {
	return max(c.clock.Now().Sub(c.lastStart), 0)
}
