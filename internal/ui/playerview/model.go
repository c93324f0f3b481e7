// Package playerview is the owner render/input loop: a bubbletea model that
// turns keys into engine commands and draws the synchronized song position.
package playerview

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tabplayer/internal/cues"
	"github.com/llehouerou/tabplayer/internal/engine"
	"github.com/llehouerou/tabplayer/internal/errmsg"
	"github.com/llehouerou/tabplayer/internal/keymap"
	"github.com/llehouerou/tabplayer/internal/timeline"
)

const speedStep = 0.25

// Sender queues engine commands. *engine.Handle satisfies it.
type Sender interface {
	Send(cmd engine.Command) error
}

// Source is the read side of the engine.
type Source interface {
	engine.PositionReader
	Subscribe() *engine.Subscription
}

// PositionSaver checkpoints the resume position while the app runs.
type PositionSaver interface {
	SavePositionLater(path string, position, duration time.Duration)
}

// Config holds the timing and control settings of the view.
type Config struct {
	Tick      time.Duration // fixed simulation step
	Frame     time.Duration // render interval
	Speed     float64
	MaxDrift  time.Duration
	Distances keymap.Distances
}

// Option configures a Model.
type Option func(*Model)

// WithPositionSaver checkpoints the position whenever playback pauses.
func WithPositionSaver(s PositionSaver) Option {
	return func(m *Model) { m.saver = s }
}

// WithClock sets the clock used to read the engine position.
func WithClock(c engine.Clock) Option {
	return func(m *Model) { m.clock = c }
}

// Model is the bubbletea model. Quitting the program never touches the
// engine; the caller sends Quit and joins once Run returns.
type Model struct {
	sender   Sender
	source   Source
	sub      *engine.Subscription
	resolver *keymap.Resolver
	sync     *timeline.Synchronizer
	saver    PositionSaver
	clock    engine.Clock
	cfg      Config

	snap      engine.Snapshot
	cues      *cues.Sheet
	cuesFor   string // song path the cue sheet was requested for
	position  time.Duration
	lastFrame time.Time
	status    string
	showHelp  bool
	quitting  bool
	width     int
	progress  progress.Model
}

// New creates the view. It subscribes to the engine immediately so no event
// published after New is missed.
func New(sender Sender, source Source, cfg Config, opts ...Option) Model {
	if cfg.Tick <= 0 {
		cfg.Tick = timeline.TickFromRate(timeline.DefaultTickRate)
	}
	if cfg.Frame <= 0 {
		cfg.Frame = time.Second / 30
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1
	}

	m := Model{
		sender:   sender,
		source:   source,
		resolver: keymap.Default(),
		clock:    engine.SystemClock{},
		cfg:      cfg,
		width:    80,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.sub = source.Subscribe()
	m.sync = timeline.NewSynchronizer(source, cfg.Tick,
		timeline.WithClock(m.clock),
		timeline.WithSpeed(cfg.Speed),
		timeline.WithMaxDrift(cfg.MaxDrift),
	)
	m.snap = source.Snapshot()
	m.position = m.sync.Current()
	m.lastFrame = m.clock.Now()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.cfg.Frame), watchEngine(m.sub))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case frameMsg:
		m.frame(time.Time(msg))
		load := m.refreshCues()
		return m, tea.Batch(frameCmd(m.cfg.Frame), load)

	case cuesLoadedMsg:
		if msg.path != m.cuesFor {
			return m, nil
		}
		m.cues = msg.sheet
		if msg.err != nil {
			m.status = errmsg.FormatWith(errmsg.OpCuesLoad, cues.SidecarPath(msg.path), msg.err)
		}
		return m, nil

	case engineEventMsg:
		m.handleEvent(msg.event)
		return m, watchEngine(m.sub)

	case engineDoneMsg:
		// Another producer (remote control) stopped the engine.
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// refreshCues requests the cue sheet when the loaded song changed. The
// snapshot is used rather than SongLoaded so a load that completed before
// the subscription existed is still picked up.
func (m *Model) refreshCues() tea.Cmd {
	path := m.snap.Song.Path
	if path == m.cuesFor {
		return nil
	}
	m.cuesFor = path
	m.cues = nil
	if path == "" {
		return nil
	}
	return loadCues(path)
}

// frame advances the synchronizer by the wall time since the last frame.
func (m *Model) frame(now time.Time) {
	delta := now.Sub(m.lastFrame)
	m.lastFrame = now
	m.snap = m.source.Snapshot()
	m.position = m.sync.Frame(delta)
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	action := m.resolver.Resolve(key)
	switch action {
	case "":
		return m, nil
	case keymap.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
		return m, nil
	case keymap.ActionSpeedUp:
		m.sync.SetSpeed(m.sync.Speed() + speedStep)
		return m, nil
	case keymap.ActionSpeedDown:
		m.sync.SetSpeed(m.sync.Speed() - speedStep)
		return m, nil
	case keymap.ActionSpeedReset:
		m.sync.SetSpeed(1)
		return m, nil
	}

	cmd, ok := keymap.CommandFor(action, m.source.Snapshot().State, m.cfg.Distances)
	if !ok {
		return m, nil
	}
	if err := m.sender.Send(cmd); err != nil {
		if engine.IsDisconnected(err) {
			m.quitting = true
			return m, tea.Quit
		}
		m.status = errmsg.Format(errmsg.ForCommand(cmd), err)
	}
	return m, nil
}

func (m *Model) handleEvent(event any) {
	switch e := event.(type) {
	case engine.StateChange:
		m.snap = m.source.Snapshot()
		if e.Current == engine.Paused && m.saver != nil && m.snap.Song.Path != "" {
			m.saver.SavePositionLater(m.snap.Song.Path, m.snap.Base, m.snap.Song.Duration)
		}
		if e.Current == engine.Playing {
			m.status = ""
		}
	case engine.SongLoaded:
		m.status = ""
	case engine.ErrorEvent:
		m.status = errmsg.FormatCommand(e.Command, e.Err)
	case engine.PositionChange:
		// The synchronizer notices the new generation on its next tick.
	}
}

// Position returns the interpolated position drawn by the last frame.
func (m Model) Position() time.Duration { return m.position }

// Status returns the current status line message.
func (m Model) Status() string { return m.status }

// Cue returns the cue active at the drawn position.
func (m Model) Cue() (cues.Cue, bool) { return m.cues.At(m.position) }

// Quitting reports whether the view asked the program to exit.
func (m Model) Quitting() bool { return m.quitting }
