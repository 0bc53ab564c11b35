package tui

import (
	"fmt"
	"strings"

	"director-server/internal/export"
	"director-server/internal/models"
	"director-server/internal/session"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("🎬 Director's Cut"))
	b.WriteString("\n")

	switch m.State.Status {
	case session.StatusIdle:
		b.WriteString(m.formView())
	case session.StatusLoading:
		b.WriteString(StatusStyle.Render("⏳ Director is blocking the scenes..."))
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("Processing scene logic & visual styles..."))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render("esc cancel | ctrl+c quit"))
	case session.StatusSuccess:
		b.WriteString(m.resultView())
	case session.StatusError:
		b.WriteString(ErrorStyle.Render("❌ " + m.State.Error))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render("enter retry | r reset | q quit"))
	}

	if m.Notice != "" {
		b.WriteString("\n\n")
		b.WriteString(HighlightStyle.Render(m.Notice))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) formView() string {
	var b strings.Builder

	ideaStyle, characterStyle := InputStyle, InputStyle
	if m.Focus == FieldIdea {
		ideaStyle = FocusedInputStyle
	} else {
		characterStyle = FocusedInputStyle
	}

	b.WriteString(LabelStyle.Render("Video concept"))
	b.WriteString("\n")
	b.WriteString(ideaStyle.Render(placeholder(m.Idea, "A futuristic samurai walking through a rainy neon marketplace...")))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Main character (optional)"))
	b.WriteString("\n")
	b.WriteString(characterStyle.Render(placeholder(m.Character, "e.g. KENJI")))
	b.WriteString("\n\n")
	b.WriteString(InfoStyle.Render("enter generate | tab switch field | esc quit"))
	return b.String()
}

func (m Model) resultView() string {
	resp := m.State.Response
	if resp == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(HighlightStyle.Render(resp.Title))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(resp.Logline))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s   %s %s\n\n",
		LabelStyle.Render("Mood:"), resp.Mood,
		LabelStyle.Render("Runtime:"), export.FormatRuntime(export.Runtime(resp))))

	for i, cut := range resp.Cuts {
		style := CardStyle
		if i == m.Selected {
			style = SelectedCardStyle
		}
		b.WriteString(style.Render(cutCard(cut, i == m.Selected)))
		b.WriteString("\n")
	}

	b.WriteString(InfoStyle.Render("-- END SCENE --"))
	b.WriteString("\n\n")
	b.WriteString(InfoStyle.Render("↑/↓ select cut | e export script | r new sequence | q quit"))
	return b.String()
}

// cutCard renders one timeline card. Only the selected card shows the prompt.
func cutCard(cut models.Cut, expanded bool) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s  %s\n",
		HighlightStyle.Render(fmt.Sprintf("CUT %02d", cut.Sequence)),
		cut.Title,
		InfoStyle.Render(export.FormatRuntime(models.CutDuration))))
	b.WriteString(cut.ActionDescription)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		LabelStyle.Render("Camera:"), cut.Visuals.CameraMovement,
		LabelStyle.Render("Angle:"), cut.Visuals.Angle,
		LabelStyle.Render("Lighting:"), cut.Visuals.Lighting,
		LabelStyle.Render("Lens:"), cut.Visuals.LensChoice))
	if expanded {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("AI prompt: "))
		b.WriteString(cut.GeneratedPrompt)
	}
	return b.String()
}

func placeholder(value, hint string) string {
	if value == "" {
		return InfoStyle.Render(hint)
	}
	return value
}
