package engine

import "time"

// StateChange is emitted when the playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// PositionChange is emitted when the position jumps: PlaySong rewinds,
// Seek, Jump and LoadSong. Continuous advance while Playing is not an event.
type PositionChange struct {
	Position   time.Duration
	Generation uint64
}

// SongLoaded is emitted after LoadSong succeeds.
type SongLoaded struct {
	Song SongInfo
}

// ErrorEvent is emitted when a command fails in a recoverable way.
type ErrorEvent struct {
	Command Command
	Err     error
}
