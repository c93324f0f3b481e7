package keymap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/tabplayer/internal/engine"
)

func TestByContext(t *testing.T) {
	tests := []struct {
		context   string
		minLength int
	}{
		{"global", 2},
		{"playback", 7},
		{"view", 3},
		{"unknown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.context, func(t *testing.T) {
			result := ByContext(tt.context)
			assert.GreaterOrEqual(t, len(result), tt.minLength)
			if tt.minLength == 0 {
				assert.Empty(t, result)
			}
			for _, b := range result {
				assert.Equal(t, tt.context, b.Context)
			}
		})
	}
}

func TestCommandFor(t *testing.T) {
	d := Distances{Scroll: 50 * time.Millisecond, Jump: 500 * time.Millisecond}

	tests := []struct {
		name   string
		action Action
		state  engine.State
		want   engine.Command
		ok     bool
	}{
		{"space while idle plays", ActionPlayPause, engine.Idle, engine.PlaySong(), true},
		{"space while playing pauses", ActionPlayPause, engine.Playing, engine.Pause(), true},
		{"space while paused resumes", ActionPlayPause, engine.Paused, engine.Resume(), true},
		{"restart", ActionRestart, engine.Paused, engine.PlaySong(), true},
		{"scroll forward", ActionScrollForward, engine.Playing, engine.Jump(50 * time.Millisecond), true},
		{"scroll back", ActionScrollBack, engine.Idle, engine.Jump(-50 * time.Millisecond), true},
		{"jump forward", ActionJumpForward, engine.Paused, engine.Jump(500 * time.Millisecond), true},
		{"jump back", ActionJumpBack, engine.Playing, engine.Jump(-500 * time.Millisecond), true},
		{"jump to start", ActionJumpStart, engine.Playing, engine.Seek(0), true},
		{"quit is not an engine command", ActionQuit, engine.Playing, engine.Command{}, false},
		{"speed is render side", ActionSpeedUp, engine.Playing, engine.Command{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CommandFor(tt.action, tt.state, d)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
