//go:build linux

package mpris

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tabplayer/internal/engine"
)

type recordingSender struct {
	sent []engine.Command
	err  error
}

func (r *recordingSender) Send(cmd engine.Command) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, cmd)
	return nil
}

type fixedReader struct {
	snap engine.Snapshot
}

func (f *fixedReader) Snapshot() engine.Snapshot { return f.snap }

func newTestPlayer(state engine.State) (*playerAdapter, *recordingSender, *fixedReader, *engine.ManualClock) {
	sender := &recordingSender{}
	clock := engine.NewManualClock()
	reader := &fixedReader{snap: engine.Snapshot{
		State: state,
		Base:  10 * time.Second,
		Since: clock.Now(),
		Song: engine.SongInfo{
			Path:     "/songs/lesson.flac",
			Title:    "Lesson",
			Artist:   "Lesson Band",
			Duration: 3 * time.Minute,
		},
	}}
	c := &controls{sender: sender, reader: reader, clock: clock, log: zerolog.Nop()}
	return &playerAdapter{controls: c}, sender, reader, clock
}

func TestPlayPause_FollowsState(t *testing.T) {
	tests := []struct {
		state engine.State
		want  engine.Command
	}{
		{engine.Idle, engine.PlaySong()},
		{engine.Playing, engine.Pause()},
		{engine.Paused, engine.Resume()},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			p, sender, _, _ := newTestPlayer(tt.state)
			require.NoError(t, p.PlayPause())
			assert.Equal(t, []engine.Command{tt.want}, sender.sent)
		})
	}
}

func TestPlay(t *testing.T) {
	p, sender, reader, _ := newTestPlayer(engine.Playing)
	require.NoError(t, p.Play())
	assert.Empty(t, sender.sent, "already playing")

	reader.snap.State = engine.Paused
	require.NoError(t, p.Play())
	reader.snap.State = engine.Idle
	require.NoError(t, p.Play())
	assert.Equal(t, []engine.Command{engine.Resume(), engine.PlaySong()}, sender.sent)
}

func TestStop_PausesAndRewinds(t *testing.T) {
	p, sender, _, _ := newTestPlayer(engine.Playing)
	require.NoError(t, p.Stop())
	assert.Equal(t, []engine.Command{engine.Pause(), engine.Seek(0)}, sender.sent)
}

func TestSeekAndSetPosition(t *testing.T) {
	p, sender, _, _ := newTestPlayer(engine.Playing)

	require.NoError(t, p.Seek(types.Microseconds(-5_000_000)))
	require.NoError(t, p.SetPosition("/track", types.Microseconds(42_000_000)))

	assert.Equal(t, []engine.Command{
		engine.Jump(-5 * time.Second),
		engine.Seek(42 * time.Second),
	}, sender.sent)
}

func TestSend_IgnoresDisconnected(t *testing.T) {
	p, sender, _, _ := newTestPlayer(engine.Playing)
	sender.err = engine.ErrDisconnected
	assert.NoError(t, p.Pause())

	other := errors.New("boom")
	sender.err = other
	assert.ErrorIs(t, p.Pause(), other)
}

func TestRootQuit(t *testing.T) {
	p, sender, _, _ := newTestPlayer(engine.Playing)
	r := &rootAdapter{controls: p.controls}

	require.NoError(t, r.Quit())
	assert.Equal(t, []engine.Command{engine.Quit()}, sender.sent)
}

func TestPositionAndStatus(t *testing.T) {
	p, _, reader, clock := newTestPlayer(engine.Playing)
	clock.Advance(1500 * time.Millisecond)

	pos, err := p.Position()
	require.NoError(t, err)
	assert.Equal(t, (11500 * time.Millisecond).Microseconds(), pos)

	status, err := p.PlaybackStatus()
	require.NoError(t, err)
	assert.Equal(t, types.PlaybackStatusPlaying, status)

	reader.snap.State = engine.Paused
	pos, err = p.Position()
	require.NoError(t, err)
	assert.Equal(t, (10 * time.Second).Microseconds(), pos, "paused position is frozen")
}

func TestMetadata(t *testing.T) {
	p, _, reader, _ := newTestPlayer(engine.Paused)

	meta, err := p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "Lesson", meta.Title)
	assert.Equal(t, []string{"Lesson Band"}, meta.Artist)
	assert.Equal(t, types.Microseconds((3 * time.Minute).Microseconds()), meta.Length)
	assert.True(t, strings.HasPrefix(string(meta.TrackId), "/org/mpris/MediaPlayer2/Track/"))

	reader.snap.Song = engine.SongInfo{}
	meta, err = p.Metadata()
	require.NoError(t, err)
	assert.Empty(t, meta.Title)
}
