// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"fmt"

	"github.com/llehouerou/tabplayer/internal/engine"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Audio device
	OpDeviceOpen Op = "open audio device"

	// Playback operations
	OpSongLoad      Op = "load song"
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"
	OpCuesLoad      Op = "load cues"

	// Resume positions
	OpPositionLoad Op = "load resume position"
	OpPositionSave Op = "save resume position"
	OpVolumeSave   Op = "save volume"

	// Remote control
	OpRemoteStart Op = "start remote control"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// ForCommand names the user-facing operation behind an engine command.
func ForCommand(cmd engine.Command) Op {
	switch cmd.Kind {
	case engine.CmdLoadSong:
		return OpSongLoad
	case engine.CmdSeek, engine.CmdJump:
		return OpPlaybackSeek
	case engine.CmdPlaySong, engine.CmdPause, engine.CmdResume, engine.CmdQuit:
	}
	return OpPlaybackStart
}

// FormatCommand describes a failed engine command.
func FormatCommand(cmd engine.Command, err error) string {
	return FormatWith(ForCommand(cmd), cmd.Path, err)
}
