package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "view"
}

// All contains all key bindings.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	// Playback
	{ActionPlayPause, []string{" ", "space"}, "Play/pause", "playback"},
	{ActionRestart, []string{"r"}, "Restart song", "playback"},
	{ActionScrollForward, []string{"right", "l"}, "Scroll forward", "playback"},
	{ActionScrollBack, []string{"left", "h"}, "Scroll back", "playback"},
	{ActionJumpForward, []string{"shift+right", "L"}, "Jump forward", "playback"},
	{ActionJumpBack, []string{"shift+left", "H"}, "Jump back", "playback"},
	{ActionJumpStart, []string{"home", "0"}, "Jump to start", "playback"},

	// View
	{ActionSpeedUp, []string{"+", "="}, "Faster scrolling", "view"},
	{ActionSpeedDown, []string{"-"}, "Slower scrolling", "view"},
	{ActionSpeedReset, []string{"1"}, "Normal scrolling", "view"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
