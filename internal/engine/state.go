package engine

// State is the engine's playback state.
//
//	         PlaySong              Pause
//	Idle ─────────────▶ Playing ─────────▶ Paused
//	                      ▲   ◀───────────   │
//	                      │      Resume      │
//	                      └──── PlaySong ────┘
//
// LoadSong returns any state to Idle. Pause and Resume are no-ops when they
// would not change the state, and both are no-ops from Idle.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a song has been started (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
