//go:build linux

// Package mpris exposes the engine over the MPRIS D-Bus interface so desktop
// media keys and applets can drive playback.
package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tabplayer/internal/engine"
	"github.com/llehouerou/tabplayer/internal/keymap"
)

// Sender queues engine commands. *engine.Handle satisfies it.
type Sender interface {
	Send(cmd engine.Command) error
}

// Adapter connects the engine to MPRIS over D-Bus. It is one more command
// producer: it owns a handle and reads the published snapshot.
type Adapter struct {
	server *server.Server
	handle *engine.Handle
	log    zerolog.Logger
}

// New creates and starts a new MPRIS adapter. The adapter takes ownership of
// handle and closes it in Close.
func New(handle *engine.Handle, reader engine.PositionReader, log zerolog.Logger) (*Adapter, error) {
	// Fail early without a session bus instead of in the Listen goroutine.
	if _, err := dbus.SessionBus(); err != nil {
		handle.Close()
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	a := &Adapter{handle: handle, log: log}
	c := &controls{sender: handle, reader: reader, clock: engine.SystemClock{}, log: log}

	a.server = server.NewServer("tabplayer", &rootAdapter{controls: c}, &playerAdapter{controls: c})

	go func() {
		if err := a.server.Listen(); err != nil {
			log.Warn().Err(err).Msg("mpris server stopped")
		}
	}()

	return a, nil
}

// Close stops the adapter, releases D-Bus resources and drops its handle.
func (a *Adapter) Close() error {
	a.handle.Close()
	return a.server.Stop()
}

// controls holds what both D-Bus objects need.
type controls struct {
	sender Sender
	reader engine.PositionReader
	clock  engine.Clock
	log    zerolog.Logger
}

// send queues cmd. A disconnected engine is shutting down, which is not an
// error for a remote caller.
func (c *controls) send(cmd engine.Command) error {
	err := c.sender.Send(cmd)
	if err != nil && engine.IsDisconnected(err) {
		c.log.Debug().Stringer("command", cmd).Msg("mpris command after shutdown")
		return nil
	}
	return err
}

func (c *controls) snapshot() engine.Snapshot {
	return c.reader.Snapshot()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct {
	*controls
}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return r.send(engine.Quit())
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return true, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Tabplayer", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	*controls
}

func (p *playerAdapter) Next() error {
	return nil // Single song
}

func (p *playerAdapter) Previous() error {
	return p.send(engine.Seek(0))
}

func (p *playerAdapter) Pause() error {
	return p.send(engine.Pause())
}

func (p *playerAdapter) PlayPause() error {
	cmd, _ := keymap.CommandFor(keymap.ActionPlayPause, p.snapshot().State, keymap.Distances{})
	return p.send(cmd)
}

// Stop pauses and rewinds; the song stays loaded.
func (p *playerAdapter) Stop() error {
	if p.snapshot().State == engine.Playing {
		if err := p.send(engine.Pause()); err != nil {
			return err
		}
	}
	return p.send(engine.Seek(0))
}

func (p *playerAdapter) Play() error {
	switch p.snapshot().State {
	case engine.Paused:
		return p.send(engine.Resume())
	case engine.Idle:
		return p.send(engine.PlaySong())
	case engine.Playing:
	}
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.send(engine.Jump(time.Duration(offset) * time.Microsecond))
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.send(engine.Seek(time.Duration(position) * time.Microsecond))
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.snapshot().State {
	case engine.Playing:
		return types.PlaybackStatusPlaying, nil
	case engine.Paused:
		return types.PlaybackStatusPaused, nil
	case engine.Idle:
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Audio always plays at normal speed
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	song := p.snapshot().Song
	if song.Path == "" {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(song.Path)),
		Length:  types.Microseconds(song.Duration.Microseconds()),
		Title:   song.Title,
		Album:   song.Album,
	}
	if song.Artist != "" {
		meta.Artist = []string{song.Artist}
	}
	if artPath := FindAlbumArt(song.Path); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return p.snapshot().PositionAt(p.clock.Now()).Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.snapshot().Song.Path != "", nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.snapshot().Song.Path != "", nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
