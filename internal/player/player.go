// Package player is the audio backend: it opens the default output device
// through beep's speaker and plays one decoded song source at a time.
package player

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tabplayer/internal/engine"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	DefaultBuffer     = 100 * time.Millisecond
	resampleQuality   = 4
)

var (
	// ErrDeviceUnavailable means no audio output device could be opened.
	ErrDeviceUnavailable = errors.New("audio output device unavailable")
	// ErrNoSource is returned by Play and TrySeek before a song is loaded.
	ErrNoSource = errors.New("no song loaded")
)

// Verify Player implements engine.Backend at compile time.
var _ engine.Backend = (*Player)(nil)

// Options configures the output device.
type Options struct {
	SampleRate beep.SampleRate
	Buffer     time.Duration
	Volume     float64 // 0.0 to 1.0; zero means full volume, use SetMuted to silence
	Logger     zerolog.Logger
}

// Player drives the speaker. After Open it must only be used from the
// engine goroutine, except for Close once the engine has returned.
type Player struct {
	log        zerolog.Logger
	sampleRate beep.SampleRate

	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	info     engine.SongInfo

	ctrl        *beep.Ctrl
	volume      *effects.Volume
	volumeLevel float64
	muted       bool
}

// Open initializes the default output device. Failure is fatal for the
// application: there is no silent fallback.
func Open(opts Options) (*Player, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultBuffer
	}
	if opts.Volume <= 0 {
		opts.Volume = 1
	}
	if err := speaker.Init(opts.SampleRate, opts.SampleRate.N(opts.Buffer)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	p := &Player{
		log:         opts.Logger,
		sampleRate:  opts.SampleRate,
		volumeLevel: 1,
	}
	p.SetVolume(opts.Volume)
	p.log.Debug().Int("sample_rate", int(opts.SampleRate)).Dur("buffer", opts.Buffer).Msg("speaker initialized")
	return p, nil
}

// Load decodes the song at path. Output of the current source stops first;
// if decoding fails the previous source stays loaded.
func (p *Player) Load(path string) (engine.SongInfo, error) {
	p.Stop()

	f, streamer, format, err := openSource(path)
	if err != nil {
		return engine.SongInfo{}, err
	}

	p.closeSource()
	p.file = f
	p.streamer = streamer
	p.format = format
	p.info = readSongInfo(path)
	p.info.Duration = format.SampleRate.D(streamer.Len())
	return p.info, nil
}

// Play starts the loaded source from its beginning.
func (p *Player) Play() error {
	if p.streamer == nil {
		return ErrNoSource
	}
	speaker.Clear()
	if err := p.streamer.Seek(0); err != nil {
		return fmt.Errorf("rewind: %w", err)
	}

	var s beep.Streamer = p.streamer
	if p.format.SampleRate != p.sampleRate {
		s = beep.Resample(resampleQuality, p.format.SampleRate, p.sampleRate, s)
	}
	p.ctrl = &beep.Ctrl{Streamer: s}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   p.levelToVolume(p.volumeLevel),
		Silent:   p.muted,
	}
	speaker.Play(p.volume)
	return nil
}

// Pause holds output at the current sample.
func (p *Player) Pause() {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

// Resume continues output after Pause.
func (p *Player) Resume() {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
}

// TrySeek moves the source to position, clamped to its length.
func (p *Player) TrySeek(position time.Duration) error {
	if p.streamer == nil {
		return ErrNoSource
	}
	n := clampSample(p.format.SampleRate.N(position), p.streamer.Len())

	speaker.Lock()
	err := p.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("seek to %v: %w", position, err)
	}
	return nil
}

// Stop silences output. The source stays loaded so Play can restart it.
func (p *Player) Stop() {
	speaker.Clear()
	p.ctrl = nil
	p.volume = nil
}

// Song returns the loaded song, if any.
func (p *Player) Song() (engine.SongInfo, bool) {
	return p.info, p.streamer != nil
}

// Close releases the source and the output device.
func (p *Player) Close() {
	p.Stop()
	p.closeSource()
	speaker.Close()
}

func (p *Player) closeSource() {
	if p.streamer != nil {
		if err := p.streamer.Close(); err != nil {
			p.log.Debug().Err(err).Msg("close streamer")
		}
		p.streamer = nil
	}
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}
	p.info = engine.SongInfo{}
}

// clampSample limits a sample index to [0, length].
func clampSample(n, length int) int {
	return min(max(n, 0), max(length, 0))
}
