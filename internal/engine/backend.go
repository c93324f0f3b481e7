package engine

import "time"

// SongInfo describes the currently loaded source.
type SongInfo struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// clamp limits pos to the song length when it is known.
func (s SongInfo) clamp(pos time.Duration) time.Duration {
	if s.Duration > 0 {
		return min(pos, s.Duration)
	}
	return pos
}

// Backend is the audio output the engine drives. It is owned by the engine
// goroutine and never called from anywhere else.
type Backend interface {
	// Load decodes the source at path and makes it current, stopping any
	// output of the previous source. On error the previous source stays.
	Load(path string) (SongInfo, error)
	// Play starts the current source from its beginning.
	Play() error
	// Pause holds output at the current sample.
	Pause()
	// Resume continues output after Pause.
	Resume()
	// TrySeek moves the source to position. Sources that cannot seek
	// return an error and keep playing where they were.
	TrySeek(position time.Duration) error
	// Stop silences output.
	Stop()
}
