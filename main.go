package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/tabplayer/internal/config"
	"github.com/llehouerou/tabplayer/internal/engine"
	"github.com/llehouerou/tabplayer/internal/errmsg"
	"github.com/llehouerou/tabplayer/internal/keymap"
	"github.com/llehouerou/tabplayer/internal/logging"
	"github.com/llehouerou/tabplayer/internal/mpris"
	"github.com/llehouerou/tabplayer/internal/notify"
	"github.com/llehouerou/tabplayer/internal/player"
	"github.com/llehouerou/tabplayer/internal/resume"
	"github.com/llehouerou/tabplayer/internal/state"
	"github.com/llehouerou/tabplayer/internal/stderr"
	"github.com/llehouerou/tabplayer/internal/timeline"
	"github.com/llehouerou/tabplayer/internal/ui/playerview"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file (default: XDG config dir, then ./config.toml)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config file] [song]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpConfigLoad, err))
		return 1
	}
	if flag.NArg() > 0 {
		cfg.Song = flag.Arg(0)
	}
	if cfg.Song == "" {
		flag.Usage()
		return 2
	}

	logFile, err := cfg.GetLogFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
		return 1
	}
	log, logCloser, err := logging.Setup(cfg.GetLogLevel(), logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
		return 1
	}
	defer logCloser.Close()

	if err := stderr.Start(log); err != nil {
		log.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	return play(cfg, log)
}

func play(cfg *config.Config, log zerolog.Logger) int {
	store, err := state.Open()
	if err != nil {
		log.Warn().Err(err).Msg("resume positions unavailable")
		store = nil
	}
	defer closeStore(store, log)

	audioCfg := cfg.GetAudioConfig()
	volume := audioCfg.Volume
	muted := false
	if store != nil {
		if v, err := store.GetVolume(); err == nil {
			volume, muted = v.Volume, v.Muted
		}
	}

	// No silent fallback: without an output device there is nothing to do.
	backend, err := player.Open(player.Options{
		SampleRate: player.DefaultSampleRate,
		Buffer:     audioCfg.Buffer(),
		Volume:     volume,
		Logger:     log.With().Str("component", "player").Logger(),
	})
	if err != nil {
		log.Error().Err(err).Msg("open audio device")
		stderr.WriteOriginal(errmsg.Format(errmsg.OpDeviceOpen, err) + "\n")
		return 1
	}
	defer backend.Close()
	backend.SetMuted(muted)

	handle, rx := engine.NewChannel(cfg.GetEngineConfig().ChannelCapacity)
	eng := engine.New(backend, rx, engine.WithLogger(log.With().Str("component", "engine").Logger()))

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return eng.Run(ctx)
	})

	// Subscribed before the song is queued so its SongLoaded is announced.
	announcer := startAnnouncer(ctx, g, eng, cfg.GetNotificationsConfig(), log)

	if err := resume.Startup(handle, cfg.Song, store, cfg.ShouldResume(), log); err != nil {
		log.Error().Err(err).Msg("queue startup commands")
	}

	remote, err := mpris.New(handle.Clone(), eng, log.With().Str("component", "mpris").Logger())
	if err != nil {
		log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpRemoteStart, err))
	}

	tl := cfg.GetTimelineConfig()
	controls := cfg.GetControlsConfig()
	opts := []playerview.Option{}
	if store != nil {
		opts = append(opts, playerview.WithPositionSaver(store))
	}
	view := playerview.New(handle, eng, playerview.Config{
		Tick:      timeline.TickFromRate(tl.TickHz),
		Frame:     time.Second / time.Duration(tl.FrameHz),
		Speed:     tl.Speed,
		MaxDrift:  tl.MaxDrift(),
		Distances: keymap.Distances{Scroll: controls.Scroll(), Jump: controls.Jump()},
	}, opts...)

	exitCode := 0
	if _, err := tea.NewProgram(view, tea.WithAltScreen()).Run(); err != nil {
		log.Error().Err(err).Msg("ui")
		exitCode = 1
	}

	// Shutdown order: UI done, Quit sent, engine joined, then persistence.
	if err := handle.Send(engine.Quit()); err != nil && !engine.IsDisconnected(err) {
		log.Warn().Err(err).Msg("send quit")
	}
	handle.Close()
	if remote != nil {
		if err := remote.Close(); err != nil {
			log.Debug().Err(err).Msg("close mpris")
		}
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("engine")
		exitCode = 1
	}

	if announcer != nil {
		if err := announcer.Close(); err != nil {
			log.Debug().Err(err).Msg("close notification")
		}
	}

	resume.SaveFinal(eng.Snapshot(), backend, store, log)
	return exitCode
}

// startAnnouncer runs desktop notifications for engine events when enabled.
func startAnnouncer(ctx context.Context, g *errgroup.Group, eng *engine.Engine, cfg config.NotificationsConfig, log zerolog.Logger) *notify.Announcer {
	if !cfg.Enabled {
		return nil
	}
	notifier, err := notify.New()
	if err != nil {
		log.Warn().Err(err).Msg("notifications unavailable")
		return nil
	}
	a := notify.NewAnnouncer(notifier, cfg.Timeout(),
		notify.WithLogger(log.With().Str("component", "notify").Logger()))
	sub := eng.Subscribe()
	g.Go(func() error {
		return a.Run(ctx, sub)
	})
	return a
}

func closeStore(store *state.Manager, log zerolog.Logger) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		log.Debug().Err(err).Msg("close state")
	}
}
