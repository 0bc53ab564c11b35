package tui

import "director-server/internal/session"

// StateMsg carries a session transition. Closed is set once the session ends.
type StateMsg struct {
	State  session.State
	Closed bool
}

// ExportedMsg reports the result of writing the script file.
type ExportedMsg struct {
	Path string
	Err  error
}
