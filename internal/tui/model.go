package tui

import (
	"director-server/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// Field is the focused input of the idle form.
type Field int

const (
	FieldIdea Field = iota
	FieldCharacter
)

// Model is the terminal presentation of one session.
type Model struct {
	machine     *session.Machine
	updates     <-chan session.State
	unsubscribe func()
	exportDir   string

	State session.State

	Idea      string
	Character string
	Focus     Field

	// Selected is the index of the highlighted cut in the timeline.
	Selected int
	Notice   string
	Quitting bool
}

// NewModel subscribes to the machine. Exported scripts are written to exportDir.
func NewModel(machine *session.Machine, exportDir string) Model {
	updates, unsubscribe := machine.Subscribe()
	return Model{
		machine:     machine,
		updates:     updates,
		unsubscribe: unsubscribe,
		exportDir:   exportDir,
		State:       machine.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForState(m.updates)
}
