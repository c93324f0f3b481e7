package resume

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tabplayer/internal/engine"
	"github.com/llehouerou/tabplayer/internal/keymap"
	"github.com/llehouerou/tabplayer/internal/state"
)

const song = "/songs/lesson.mp3"

type fixedVolume struct {
	level float64
	muted bool
}

func (v fixedVolume) Volume() float64 { return v.level }
func (v fixedVolume) Muted() bool     { return v.muted }

type session struct {
	eng     *engine.Engine
	h       *engine.Handle
	backend *engine.MockBackend
	clock   *engine.ManualClock
	done    chan error
}

func startSession(t *testing.T) *session {
	t.Helper()
	h, rx := engine.NewChannel(engine.DefaultCapacity)
	b := engine.NewMockBackend()
	b.SetSongInfo(engine.SongInfo{Title: "Lesson", Duration: 3 * time.Minute})
	c := engine.NewManualClock()
	s := &session{
		eng:     engine.New(b, rx, engine.WithClock(c)),
		h:       h,
		backend: b,
		clock:   c,
		done:    make(chan error, 1),
	}
	go func() { s.done <- s.eng.Run(context.Background()) }()
	t.Cleanup(func() {
		_ = h.Send(engine.Quit())
		<-s.done
	})
	return s
}

func (s *session) waitFor(t *testing.T, st engine.State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.eng.Snapshot().State == st
	}, time.Second, time.Millisecond)
}

func (s *session) quit(t *testing.T) {
	t.Helper()
	require.NoError(t, s.h.Send(engine.Quit()))
	select {
	case err := <-s.done:
		require.NoError(t, err)
		s.done <- nil
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
}

func openStore(t *testing.T) *state.Manager {
	t.Helper()
	store, err := state.OpenPath(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStartup_FirstPlayContinuesFromSavedPosition(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.SavePosition(song, 30*time.Second, 3*time.Minute))
	s := startSession(t)

	require.NoError(t, Startup(s.h, song, store, true, zerolog.Nop()))
	require.Eventually(t, func() bool {
		snap := s.eng.Snapshot()
		return snap.State == engine.Paused && snap.Base == 30*time.Second
	}, time.Second, time.Millisecond)

	cmd, ok := keymap.CommandFor(keymap.ActionPlayPause, s.eng.Snapshot().State, keymap.Distances{})
	require.True(t, ok)
	assert.Equal(t, engine.CmdResume, cmd.Kind)
	require.NoError(t, s.h.Send(cmd))
	s.waitFor(t, engine.Playing)

	s.clock.Advance(5 * time.Second)
	assert.Equal(t, 35*time.Second, s.eng.Snapshot().PositionAt(s.clock.Now()))

	s.quit(t)
	SaveFinal(s.eng.Snapshot(), fixedVolume{level: 0.5}, store, zerolog.Nop())

	pos, ok, err := store.GetPosition(song)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 35*time.Second, pos)
	assert.Equal(t, []string{"load", "play", "pause", "seek", "resume", "stop"}, s.backend.Calls())
	assert.Equal(t, []time.Duration{30 * time.Second}, s.backend.SeekCalls())

	vol, err := store.GetVolume()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, vol.Volume, 1e-9)
	assert.False(t, vol.Muted)
}

func TestStartup_NoSavedPositionStaysIdle(t *testing.T) {
	store := openStore(t)
	s := startSession(t)

	require.NoError(t, Startup(s.h, song, store, true, zerolog.Nop()))
	require.Eventually(t, func() bool {
		return s.eng.Snapshot().Song.Path == song
	}, time.Second, time.Millisecond)

	s.quit(t)
	assert.Equal(t, engine.Idle, s.eng.Snapshot().State)
	assert.Equal(t, []string{"load", "stop"}, s.backend.Calls())
}

func TestStartup_DisabledIgnoresSavedPosition(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.SavePosition(song, 30*time.Second, 3*time.Minute))
	s := startSession(t)

	require.NoError(t, Startup(s.h, song, store, false, zerolog.Nop()))
	s.quit(t)

	assert.Equal(t, time.Duration(0), s.eng.Snapshot().Base)
	assert.Equal(t, []string{"load", "stop"}, s.backend.Calls())
}

func TestStartup_NilStoreOnlyLoads(t *testing.T) {
	s := startSession(t)

	require.NoError(t, Startup(s.h, song, nil, true, zerolog.Nop()))
	s.quit(t)

	assert.Equal(t, []string{"load", "stop"}, s.backend.Calls())
}

func TestStartup_ClosedHandleFails(t *testing.T) {
	h, _ := engine.NewChannel(1)
	h.Close()

	err := Startup(h, song, nil, true, zerolog.Nop())
	assert.ErrorIs(t, err, engine.ErrHandleClosed)
}

func TestSaveFinal_FinishedSongClearsPosition(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.SavePosition(song, 30*time.Second, 3*time.Minute))

	snap := engine.Snapshot{
		State: engine.Idle,
		Base:  3*time.Minute - time.Second,
		Song:  engine.SongInfo{Path: song, Duration: 3 * time.Minute},
	}
	SaveFinal(snap, fixedVolume{level: 1, muted: true}, store, zerolog.Nop())

	_, ok, err := store.GetPosition(song)
	require.NoError(t, err)
	assert.False(t, ok)

	vol, err := store.GetVolume()
	require.NoError(t, err)
	assert.True(t, vol.Muted)
}

func TestSaveFinal_NilStore(t *testing.T) {
	assert.NotPanics(t, func() {
		SaveFinal(engine.Snapshot{}, fixedVolume{}, nil, zerolog.Nop())
	})
}
