package timeline

import (
	"time"

	"github.com/llehouerou/tabplayer/internal/engine"
)

const (
	// DefaultMaxDrift is how far the visual position may trail or lead the
	// engine at normal speed before it is pulled back in line.
	DefaultMaxDrift = 50 * time.Millisecond

	MinSpeed = 0.1
	MaxSpeed = 4.0
)

// Synchronizer keeps the render-side previous/current position pair.
// It belongs to the render goroutine; it only reads engine snapshots and
// never feeds anything back into the engine.
type Synchronizer struct {
	source   engine.PositionReader
	clock    engine.Clock
	step     *FixedStep
	speed    float64
	maxDrift time.Duration

	previous   time.Duration
	current    time.Duration
	generation uint64
	primed     bool
	playing    bool
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithSpeed sets the visual playback speed multiplier.
func WithSpeed(speed float64) Option {
	return func(s *Synchronizer) { s.SetSpeed(speed) }
}

// WithMaxDrift sets the drift tolerance. Zero disables drift correction.
func WithMaxDrift(d time.Duration) Option {
	return func(s *Synchronizer) { s.maxDrift = max(d, 0) }
}

// WithClock sets the clock used to read the engine position.
func WithClock(c engine.Clock) Option {
	return func(s *Synchronizer) { s.clock = c }
}

// NewSynchronizer creates a synchronizer reading from source, advancing in
// fixed ticks of the given duration.
func NewSynchronizer(source engine.PositionReader, tick time.Duration, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		source:   source,
		clock:    engine.SystemClock{},
		step:     NewFixedStep(tick),
		speed:    1,
		maxDrift: DefaultMaxDrift,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Tick()
	return s
}

// Tick runs one fixed simulation step.
func (s *Synchronizer) Tick() {
	snap := s.source.Snapshot()
	s.playing = snap.State == engine.Playing

	// Position discontinuity: move both ends together so the next frames do
	// not lerp across the jump.
	if !s.primed || snap.Generation != s.generation {
		pos := snap.PositionAt(s.clock.Now())
		s.previous, s.current = pos, pos
		s.generation = snap.Generation
		s.primed = true
		return
	}

	s.previous = s.current
	if !s.playing {
		return
	}

	next := s.current + time.Duration(float64(s.step.Tick())*s.speed)
	if s.speed == 1 && s.maxDrift > 0 {
		target := snap.PositionAt(s.clock.Now())
		switch {
		case target-next > s.maxDrift:
			next = target
		case next-target > s.maxDrift:
			// Ahead of the audio: hold instead of moving backwards.
			next = s.current
		}
	}
	if d := snap.Song.Duration; d > 0 {
		next = min(next, d)
	}
	s.current = next
}

// Interpolate returns the render position for an overstep fraction.
func (s *Synchronizer) Interpolate(fraction float64) time.Duration {
	fraction = min(max(fraction, 0), 1)
	return s.previous + time.Duration(float64(s.current-s.previous)*fraction)
}

// Frame advances the fixed step by the frame's elapsed time, runs the due
// ticks and returns the interpolated position to draw.
func (s *Synchronizer) Frame(delta time.Duration) time.Duration {
	for range s.step.Advance(delta) {
		s.Tick()
	}
	return s.Interpolate(s.step.OverstepFraction())
}

// SetSpeed sets the visual speed multiplier, clamped to [MinSpeed, MaxSpeed].
func (s *Synchronizer) SetSpeed(speed float64) {
	s.speed = min(max(speed, MinSpeed), MaxSpeed)
}

// Speed returns the visual speed multiplier.
func (s *Synchronizer) Speed() float64 { return s.speed }

// Previous returns the position at the previous tick.
func (s *Synchronizer) Previous() time.Duration { return s.previous }

// Current returns the position at the latest tick.
func (s *Synchronizer) Current() time.Duration { return s.current }

// Playing reports whether the engine was playing at the latest tick.
func (s *Synchronizer) Playing() bool { return s.playing }
