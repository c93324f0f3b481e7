package engine

import "time"

// Snapshot is an immutable copy of the engine's published state. Readers on
// other goroutines get it without blocking and extrapolate the position
// themselves while Playing.
type Snapshot struct {
	State State
	// Base is the song position at Since.
	Base  time.Duration
	Since time.Time
	// Generation increases on every position discontinuity (PlaySong, Seek,
	// Jump, LoadSong). Renderers snap to the new position when it changes.
	Generation uint64
	Song       SongInfo
}

// PositionAt returns the song position at now. It never passes the end of a
// song whose duration is known.
func (s Snapshot) PositionAt(now time.Time) time.Duration {
	pos := s.Base
	if s.State == Playing {
		pos += max(now.Sub(s.Since), 0)
	}
	return s.Song.clamp(pos)
}

// PositionReader is the render-side view of the engine.
type PositionReader interface {
	Snapshot() Snapshot
}
