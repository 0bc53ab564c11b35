package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"director-server/internal/export"
	"director-server/internal/models"
	"director-server/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// waitForState blocks until the next session transition.
func waitForState(updates <-chan session.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return StateMsg{Closed: true}
		}
		return StateMsg{State: s}
	}
}

// exportScript writes the plain-text script into dir.
func exportScript(dir string, resp *models.DirectorResponse) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, filepath.Base(export.FileName(resp.Title)))
		if err := os.WriteFile(path, []byte(export.Script(resp)), 0o644); err != nil {
			return ExportedMsg{Err: fmt.Errorf("failed to write script: %w", err)}
		}
		return ExportedMsg{Path: path}
	}
}
