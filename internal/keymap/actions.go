// Package keymap defines key bindings and maps actions to engine commands.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Transport actions
	ActionPlayPause Action = "play_pause"
	ActionRestart   Action = "restart" // start the song over

	// Position actions
	ActionScrollForward Action = "scroll_forward"
	ActionScrollBack    Action = "scroll_back"
	ActionJumpForward   Action = "jump_forward"
	ActionJumpBack      Action = "jump_back"
	ActionJumpStart     Action = "jump_start"

	// Visual speed (render side only)
	ActionSpeedUp    Action = "speed_up"
	ActionSpeedDown  Action = "speed_down"
	ActionSpeedReset Action = "speed_reset"
)
