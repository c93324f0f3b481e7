package playerview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tabplayer/internal/engine"
	"github.com/llehouerou/tabplayer/internal/keymap"
	"github.com/llehouerou/tabplayer/internal/ui/render"
	"github.com/llehouerou/tabplayer/internal/ui/styles"
)

const (
	// laneSpan is the stretch of song shown on the lane at once.
	laneSpan = 8 * time.Second
	// laneLead is the share of the lane left of the cursor.
	laneLead = 0.25
	// beat is the spacing of lane grid lines; every fourth one is a bar line.
	beat = 500 * time.Millisecond
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s := styles.T().S()
	inner := max(m.width-4, 20)

	lines := []string{
		m.headerLine(inner),
		renderLane(m.position, m.snap.Song.Duration, inner),
		cursorLine(inner),
		m.progressLine(inner),
	}
	if m.cues != nil {
		lines = append(lines, m.cueLine(inner))
	}
	if m.status != "" {
		lines = append(lines, s.Error.Render(render.Truncate(m.status, inner)))
	}
	if m.showHelp {
		lines = append(lines, helpLines(inner)...)
	}

	return s.Panel.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func (m Model) headerLine(width int) string {
	s := styles.T().S()
	song := m.snap.Song

	title := render.Sanitize(song.Title)
	if title == "" {
		title = "No song loaded"
	}
	left := styles.Gradient(render.Truncate(title, width/2), styles.T().Primary, styles.T().Secondary, true)
	if song.Artist != "" {
		left += s.Muted.Render("  " + render.Truncate(song.Artist, width/4))
	}

	right := s.Subtle.Render(fmt.Sprintf("x%.2f", m.sync.Speed()))
	return render.Row(left, right, width)
}

func (m Model) progressLine(width int) string {
	s := styles.T().S()

	status := stateSymbol(m.snap.State)
	times := fmt.Sprintf("%s / %s", render.Position(m.position), render.Duration(m.snap.Song.Duration))

	barWidth := max(width-lipgloss.Width(status)-lipgloss.Width(times)-4, 5)
	m.progress.Width = barWidth

	var ratio float64
	if d := m.snap.Song.Duration; d > 0 {
		ratio = min(float64(m.position)/float64(d), 1)
	}

	return s.Playing.Render(status) + "  " + m.progress.ViewAs(ratio) + "  " + s.Base.Render(times)
}

// cueLine shows the active cue and the next one with the time left to it.
func (m Model) cueLine(width int) string {
	s := styles.T().S()
	left := s.Muted.Render("·")
	if c, ok := m.cues.At(m.position); ok {
		left = s.Title.Render(render.Truncate(render.Sanitize(c.Label), width/2))
	}
	right := ""
	if next, ok := m.cues.Next(m.position); ok {
		right = s.Subtle.Render(fmt.Sprintf("%s in %s",
			render.Truncate(render.Sanitize(next.Label), width/3),
			render.Duration(next.At-m.position)))
	}
	return render.Row(left, right, width)
}

func stateSymbol(state engine.State) string {
	switch state {
	case engine.Playing:
		return "▶"
	case engine.Paused:
		return "⏸"
	case engine.Idle:
	}
	return "■"
}

// renderLane draws the scrolling grid: one column per slice of laneSpan,
// with the cursor column at laneLead of the width. Columns outside the song
// are blank.
func renderLane(position, duration time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	s := styles.T().S()
	step := laneSpan / time.Duration(width)
	start := position - time.Duration(float64(laneSpan)*laneLead)

	var b strings.Builder
	for col := range width {
		from := start + time.Duration(col)*step
		to := from + step
		switch {
		case to <= 0 || (duration > 0 && from >= duration):
			b.WriteByte(' ')
		case crossesGrid(from, to, 4*beat):
			b.WriteString(s.Bar.Render("┃"))
		case crossesGrid(from, to, beat):
			b.WriteString(s.Beat.Render("│"))
		default:
			b.WriteString(s.Subtle.Render("─"))
		}
	}
	return b.String()
}

// crossesGrid reports whether [from, to) contains a multiple of grid.
func crossesGrid(from, to, grid time.Duration) bool {
	if from < 0 {
		from = 0
	}
	first := (from + grid - 1) / grid * grid
	return first < to
}

func cursorLine(width int) string {
	col := int(float64(width) * laneLead)
	return strings.Repeat(" ", col) + styles.T().S().Cursor.Render("▲")
}

func helpLines(width int) []string {
	s := styles.T().S()
	var lines []string
	for _, ctx := range []string{"playback", "view", "global"} {
		var parts []string
		for _, b := range keymap.ByContext(ctx) {
			key := b.Keys[0]
			if key == " " {
				key = "space"
			}
			parts = append(parts, key+" "+b.Description)
		}
		lines = append(lines, s.Subtle.Render(render.Truncate(strings.Join(parts, " · "), width)))
	}
	return lines
}
