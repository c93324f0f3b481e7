// Package resume restores a song's saved position at startup and records it
// again on exit.
package resume

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/tabplayer/internal/engine"
	"github.com/llehouerou/tabplayer/internal/errmsg"
	"github.com/llehouerou/tabplayer/internal/state"
)

// Sender queues commands for the engine.
type Sender interface {
	Send(cmd engine.Command) error
}

// VolumeReader reports the output level to persist.
type VolumeReader interface {
	Volume() float64
	Muted() bool
}

// Startup loads song and, when enabled and a position was saved, leaves the
// engine Paused there. The first play request then resumes instead of
// rewinding.
func Startup(h Sender, song string, store *state.Manager, enabled bool, log zerolog.Logger) error {
	if err := h.Send(engine.LoadSong(song)); err != nil {
		return err
	}
	if store == nil || !enabled {
		return nil
	}
	pos, ok, err := store.GetPosition(song)
	if err != nil {
		log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpPositionLoad, err))
		return nil
	}
	if !ok {
		return nil
	}
	log.Info().Str("song", song).Dur("position", pos).Msg("resuming")
	for _, cmd := range []engine.Command{engine.PlaySong(), engine.Pause(), engine.Seek(pos)} {
		if err := h.Send(cmd); err != nil {
			return err
		}
	}
	return nil
}

// SaveFinal stores the position of a stopped engine and the volume. Failures
// are logged only.
func SaveFinal(snap engine.Snapshot, vol VolumeReader, store *state.Manager, log zerolog.Logger) {
	if store == nil {
		return
	}
	if snap.Song.Path != "" {
		if err := store.SavePosition(snap.Song.Path, snap.Base, snap.Song.Duration); err != nil {
			log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpPositionSave, err))
		}
	}
	if err := store.SaveVolume(vol.Volume(), vol.Muted()); err != nil {
		log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpVolumeSave, err))
	}
}
