// Package engine runs the playback engine: a single goroutine that owns the
// audio backend, applies transport commands in arrival order and publishes the
// authoritative song position for renderers.
package engine

import (
	"fmt"
	"time"
)

// CommandKind identifies a transport command.
type CommandKind int

const (
	CmdLoadSong CommandKind = iota
	CmdPlaySong
	CmdPause
	CmdResume
	CmdSeek
	CmdJump
	CmdQuit
)

// String returns the command kind name.
func (k CommandKind) String() string {
	switch k {
	case CmdLoadSong:
		return "LoadSong"
	case CmdPlaySong:
		return "PlaySong"
	case CmdPause:
		return "Pause"
	case CmdResume:
		return "Resume"
	case CmdSeek:
		return "Seek"
	case CmdJump:
		return "Jump"
	case CmdQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Command is a transport instruction sent to the engine.
// It is a plain value: copying it is cheap and it owns no resources.
type Command struct {
	Kind     CommandKind
	Path     string        // LoadSong
	Position time.Duration // Seek
	Delta    time.Duration // Jump
}

// LoadSong asks the engine to decode the audio at path and make it the
// current source.
func LoadSong(path string) Command { return Command{Kind: CmdLoadSong, Path: path} }

// PlaySong rewinds to the start of the song and plays it.
func PlaySong() Command { return Command{Kind: CmdPlaySong} }

// Pause freezes playback at the current position.
func Pause() Command { return Command{Kind: CmdPause} }

// Resume continues playback from the paused position.
func Resume() Command { return Command{Kind: CmdResume} }

// Seek moves to an absolute position. Negative positions clamp to zero.
func Seek(position time.Duration) Command { return Command{Kind: CmdSeek, Position: position} }

// Jump moves the position by delta relative to the engine's own position.
// A jump backwards past the start clamps to zero.
func Jump(delta time.Duration) Command { return Command{Kind: CmdJump, Delta: delta} }

// Quit stops the backend and ends the engine loop.
func Quit() Command { return Command{Kind: CmdQuit} }

func (c Command) String() string {
	switch c.Kind {
	case CmdLoadSong:
		return fmt.Sprintf("LoadSong(%q)", c.Path)
	case CmdSeek:
		return fmt.Sprintf("Seek(%v)", c.Position)
	case CmdJump:
		return fmt.Sprintf("Jump(%v)", c.Delta)
	case CmdPlaySong, CmdPause, CmdResume, CmdQuit:
		return c.Kind.String()
	default:
		return c.Kind.String()
	}
}
