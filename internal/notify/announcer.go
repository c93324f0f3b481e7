package notify

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/tabplayer/internal/engine"
	"github.com/llehouerou/tabplayer/internal/errmsg"
	"github.com/llehouerou/tabplayer/internal/mpris"
)

// Announcer turns engine events into desktop notifications. Each new
// notification replaces the previous one.
type Announcer struct {
	notifier Notifier
	timeout  time.Duration
	icon     func(songPath string) string
	log      zerolog.Logger
	lastID   uint32
}

// AnnouncerOption configures an Announcer.
type AnnouncerOption func(*Announcer)

// WithIcon sets the lookup used for the song image.
func WithIcon(f func(songPath string) string) AnnouncerOption {
	return func(a *Announcer) { a.icon = f }
}

// WithLogger sets the logger for delivery failures.
func WithLogger(log zerolog.Logger) AnnouncerOption {
	return func(a *Announcer) { a.log = log }
}

// NewAnnouncer creates an Announcer. A timeout <= 0 uses the server default.
func NewAnnouncer(n Notifier, timeout time.Duration, opts ...AnnouncerOption) *Announcer {
	a := &Announcer{
		notifier: n,
		timeout:  timeout,
		icon:     mpris.FindAlbumArt,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run consumes sub until the engine stops or ctx is done.
func (a *Announcer) Run(ctx context.Context, sub *engine.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Done:
			a.drain(sub)
			return nil
		case e := <-sub.SongLoaded:
			a.SongLoaded(e)
		case e := <-sub.Error:
			a.Failed(e)
		}
	}
}

// drain handles events still buffered when the engine stopped.
func (a *Announcer) drain(sub *engine.Subscription) {
	for {
		select {
		case e := <-sub.SongLoaded:
			a.SongLoaded(e)
		case e := <-sub.Error:
			a.Failed(e)
		default:
			return
		}
	}
}

// SongLoaded announces the newly loaded song.
func (a *Announcer) SongLoaded(e engine.SongLoaded) {
	song := e.Song
	var body []string
	if song.Artist != "" {
		body = append(body, song.Artist)
	}
	if song.Album != "" {
		body = append(body, song.Album)
	}
	a.send(Notification{
		Title:   song.Title,
		Body:    strings.Join(body, " · "),
		Icon:    a.icon(song.Path),
		Urgency: UrgencyLow,
	})
}

// Failed reports a failed command.
func (a *Announcer) Failed(e engine.ErrorEvent) {
	a.send(Notification{
		Title:   "tabplayer",
		Body:    errmsg.FormatCommand(e.Command, e.Err),
		Urgency: UrgencyCritical,
	})
}

func (a *Announcer) send(n Notification) {
	n.ReplacesID = a.lastID
	n.Timeout = -1
	if a.timeout > 0 {
		n.Timeout = int32(a.timeout / time.Millisecond)
	}
	id, err := a.notifier.Notify(n)
	if err != nil {
		a.log.Debug().Err(err).Str("title", n.Title).Msg("notify")
		return
	}
	a.lastID = id
}

// Close dismisses the last notification.
func (a *Announcer) Close() error {
	if a.lastID == 0 {
		return nil
	}
	return a.notifier.Close(a.lastID)
}
