package playerview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tabplayer/internal/cues"
	"github.com/llehouerou/tabplayer/internal/engine"
)

// frameMsg drives one render frame.
type frameMsg time.Time

// engineEventMsg wraps one event from the engine subscription.
type engineEventMsg struct {
	event any
}

// engineDoneMsg is sent once the engine loop has returned.
type engineDoneMsg struct{}

// cuesLoadedMsg carries the cue sheet read for a song.
type cuesLoadedMsg struct {
	path  string
	sheet *cues.Sheet
	err   error
}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// watchEngine waits for the next engine event.
func watchEngine(sub *engine.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return engineEventMsg{event: e}
		case e := <-sub.PositionChanged:
			return engineEventMsg{event: e}
		case e := <-sub.SongLoaded:
			return engineEventMsg{event: e}
		case e := <-sub.Error:
			return engineEventMsg{event: e}
		case <-sub.Done:
			return engineDoneMsg{}
		}
	}
}

// loadCues reads the cue sidecar of a song off the update loop.
func loadCues(path string) tea.Cmd {
	return func() tea.Msg {
		sheet, err := cues.LoadSidecar(path)
		return cuesLoadedMsg{path: path, sheet: sheet, err: err}
	}
}
