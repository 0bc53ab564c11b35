package tui

import (
	"errors"

	"director-server/internal/models"
	"director-server/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case StateMsg:
		return m.handleState(msg)
	case ExportedMsg:
		return m.handleExported(msg)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.State.Status {
	case session.StatusIdle:
		return m.handleFormKey(msg)
	case session.StatusLoading:
		if msg.String() == "esc" {
			m.State = m.machine.Reset()
			m.Notice = "Generation discarded"
		}
	case session.StatusSuccess:
		return m.handleResultKey(msg)
	case session.StatusError:
		switch msg.String() {
		case "q":
			return m.quit()
		case "r":
			m.State = m.machine.Reset()
			m.Notice = ""
		case "enter":
			return m.submit()
		}
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyTab, tea.KeyShiftTab:
		if m.Focus == FieldIdea {
			m.Focus = FieldCharacter
		} else {
			m.Focus = FieldIdea
		}
	case tea.KeyBackspace:
		m.setField(trimLastRune(m.field()))
	case tea.KeyEsc:
		return m.quit()
	case tea.KeySpace:
		m.setField(m.field() + " ")
	case tea.KeyRunes:
		m.setField(m.field() + string(msg.Runes))
	}
	return m, nil
}

func (m Model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cuts := 0
	if m.State.Response != nil {
		cuts = len(m.State.Response.Cuts)
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "r":
		m.State = m.machine.Reset()
		m.Selected = 0
		m.Notice = ""
	case "e":
		if m.State.Response != nil {
			return m, exportScript(m.exportDir, m.State.Response)
		}
	case "down", "j", "right", "l":
		if m.Selected < cuts-1 {
			m.Selected++
		}
	case "up", "k", "left", "h":
		if m.Selected > 0 {
			m.Selected--
		}
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	var character *string
	if m.Character != "" {
		c := m.Character
		character = &c
	}

	if _, err := m.machine.Submit(m.Idea, character); err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyIdea):
			m.Notice = "Describe your scene or movie concept first"
		default:
			m.Notice = err.Error()
		}
		return m, nil
	}
	m.State = m.machine.Snapshot()
	m.Selected = 0
	m.Notice = ""
	return m, nil
}

func (m Model) handleState(msg StateMsg) (tea.Model, tea.Cmd) {
	if msg.Closed {
		return m.quit()
	}
	m.State = msg.State
	if m.State.Response == nil || m.Selected >= len(m.State.Response.Cuts) {
		m.Selected = 0
	}
	return m, waitForState(m.updates)
}

func (m Model) handleExported(msg ExportedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Notice = msg.Err.Error()
	} else {
		m.Notice = "Script exported to " + msg.Path
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

func (m Model) field() string {
	if m.Focus == FieldCharacter {
		return m.Character
	}
	return m.Idea
}

func (m *Model) setField(v string) {
	if m.Focus == FieldCharacter {
		m.Character = v
	} else {
		m.Idea = v
	}
}

func trimLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
