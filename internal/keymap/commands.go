package keymap

import (
	"time"

	"github.com/llehouerou/tabplayer/internal/engine"
)

// Distances are the position steps used by the scroll and jump actions.
type Distances struct {
	Scroll time.Duration
	Jump   time.Duration
}

// CommandFor translates a transport or position action into an engine
// command. The current state decides what play/pause means. Actions that do
// not reach the engine (quit, help, speed) return false.
func CommandFor(action Action, state engine.State, d Distances) (engine.Command, bool) {
	switch action {
	case ActionPlayPause:
		switch state {
		case engine.Playing:
			return engine.Pause(), true
		case engine.Paused:
			return engine.Resume(), true
		default:
			return engine.PlaySong(), true
		}
	case ActionRestart:
		return engine.PlaySong(), true
	case ActionScrollForward:
		return engine.Jump(d.Scroll), true
	case ActionScrollBack:
		return engine.Jump(-d.Scroll), true
	case ActionJumpForward:
		return engine.Jump(d.Jump), true
	case ActionJumpBack:
		return engine.Jump(-d.Jump), true
	case ActionJumpStart:
		return engine.Seek(0), true
	}
	return engine.Command{}, false
}
