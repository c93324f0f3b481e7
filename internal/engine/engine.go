package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ErrAlreadyRunning is returned when Run is called a second time.
var ErrAlreadyRunning = errors.New("engine: already running")

// Verify Engine implements PositionReader at compile time.
var _ PositionReader = (*Engine)(nil)

// Engine owns the audio backend and the playback state machine.
//
// Everything except Snapshot and Subscribe belongs to the goroutine running
// Run: state, position and the playback clock are only ever touched there.
type Engine struct {
	backend Backend
	rx      *Receiver
	log     zerolog.Logger
	clock   playbackClock

	state State
	// position is the song position at clock.lastStart while Playing and
	// the frozen position otherwise.
	position   time.Duration
	generation uint64
	song       SongInfo

	snap    atomic.Pointer[Snapshot]
	running atomic.Bool

	subsMu   sync.Mutex
	subs     []*Subscription
	finished bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used to measure playback time.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock.clock = c }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine consuming commands from rx and driving backend.
// The engine starts Idle at position zero.
func New(backend Backend, rx *Receiver, opts ...Option) *Engine {
	e := &Engine{
		backend: backend,
		rx:      rx,
		log:     zerolog.Nop(),
		clock:   playbackClock{clock: SystemClock{}},
		state:   Idle,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.clock.restart()
	e.publish()
	return e
}

// Run processes commands until Quit, until every Handle is closed, or until
// ctx is done. The backend is stopped exactly once before Run returns.
// Run returns nil on Quit and disconnect, and ctx.Err() on cancellation.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.shutdown()

	e.log.Debug().Msg("engine started")
	for {
		cmd, err := e.rx.RecvContext(ctx)
		if err != nil {
			if IsDisconnected(err) {
				e.log.Debug().Msg("all handles closed, stopping engine")
				return nil
			}
			return err
		}
		if !e.handle(cmd) {
			return nil
		}
	}
}

// Snapshot returns the last published engine state. It never blocks.
func (e *Engine) Snapshot() Snapshot {
	return *e.snap.Load()
}

// Subscribe creates a new event subscription. Subscribing after the engine
// has finished returns a subscription whose Done channel is already closed.
func (e *Engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	if e.finished {
		sub.close()
		return sub
	}
	e.subs = append(e.subs, sub)
	return sub
}

// handle applies one command. It returns false when the loop must stop.
func (e *Engine) handle(cmd Command) bool {
	e.log.Debug().Stringer("cmd", cmd).Stringer("state", e.state).Msg("command")

	switch cmd.Kind {
	case CmdPlaySong:
		e.playSong(cmd)
	case CmdPause:
		e.pause()
	case CmdResume:
		e.resume()
	case CmdSeek:
		e.seekTo(cmd, cmd.Position)
	case CmdJump:
		e.seekTo(cmd, addClamped(e.current(), cmd.Delta))
	case CmdLoadSong:
		e.loadSong(cmd)
	case CmdQuit:
		return false
	default:
		e.log.Warn().Int("kind", int(cmd.Kind)).Msg("unknown command ignored")
	}
	return true
}

func (e *Engine) playSong(cmd Command) {
	if err := e.backend.Play(); err != nil {
		e.log.Warn().Err(err).Msg("backend play failed, running without audio")
		e.emitError(cmd, err)
	}
	e.clock.restart()
	e.position = 0
	e.generation++
	e.setState(Playing)
	e.publish()
	e.emitPosition()
}

func (e *Engine) pause() {
	if e.state != Playing {
		return
	}
	e.position = e.current()
	e.backend.Pause()
	e.setState(Paused)
	e.publish()
}

func (e *Engine) resume() {
	if e.state != Paused {
		return
	}
	e.backend.Resume()
	e.clock.restart()
	e.setState(Playing)
	e.publish()
}

// seekTo moves the position even if the backend cannot follow, so the
// visual position matches what the user asked for.
func (e *Engine) seekTo(cmd Command, target time.Duration) {
	target = e.song.clamp(max(target, 0))
	if err := e.backend.TrySeek(target); err != nil {
		e.log.Warn().Err(err).Dur("position", target).Msg("backend seek failed")
		e.emitError(cmd, err)
	}
	e.position = target
	if e.state == Playing {
		e.clock.restart()
	}
	e.generation++
	e.publish()
	e.emitPosition()
}

func (e *Engine) loadSong(cmd Command) {
	info, err := e.backend.Load(cmd.Path)
	if err != nil {
		e.log.Error().Err(err).Str("path", cmd.Path).Msg("load song failed")
		e.emitError(cmd, err)
	} else {
		e.song = info
		e.log.Info().Str("path", info.Path).Str("title", info.Title).Dur("duration", info.Duration).Msg("song loaded")
	}
	e.position = 0
	e.generation++
	e.setState(Idle)
	e.publish()
	if err == nil {
		e.forEachSub(func(s *Subscription) { s.sendSong(SongLoaded{Song: info}) })
	}
	e.emitPosition()
}

// shutdown stops the backend, closes the receiver so late senders fail fast,
// and publishes the final frozen position.
func (e *Engine) shutdown() {
	e.backend.Stop()
	e.rx.Close()

	e.position = e.current()
	e.setState(Idle)
	e.publish()

	e.subsMu.Lock()
	e.finished = true
	for _, sub := range e.subs {
		sub.close()
	}
	e.subs = nil
	e.subsMu.Unlock()

	e.log.Debug().Dur("position", e.position).Msg("engine stopped")
}

// current returns the live song position, held at the end of the song once
// the source has run out.
func (e *Engine) current() time.Duration {
	if e.state != Playing {
		return e.position
	}
	return e.song.clamp(e.position + e.clock.elapsed())
}

func (e *Engine) setState(s State) {
	prev := e.state
	e.state = s
	if prev != s {
		e.forEachSub(func(sub *Subscription) {
			sub.sendState(StateChange{Previous: prev, Current: s})
		})
	}
}

func (e *Engine) publish() {
	e.snap.Store(&Snapshot{
		State:      e.state,
		Base:       e.position,
		Since:      e.clock.lastStart,
		Generation: e.generation,
		Song:       e.song,
	})
}

func (e *Engine) emitPosition() {
	ev := PositionChange{Position: e.position, Generation: e.generation}
	e.forEachSub(func(s *Subscription) { s.sendPosition(ev) })
}

func (e *Engine) emitError(cmd Command, err error) {
	e.forEachSub(func(s *Subscription) { s.sendError(ErrorEvent{Command: cmd, Err: err}) })
}

func (e *Engine) forEachSub(fn func(*Subscription)) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for _, s := range e.subs {
		fn(s)
	}
}

// addClamped returns pos+delta, clamped to zero instead of going negative.
func addClamped(pos, delta time.Duration) time.Duration {
	if delta < 0 && -delta >= pos {
		return 0
	}
	return pos + delta
}
