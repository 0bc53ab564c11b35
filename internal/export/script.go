// Package export renders a DirectorResponse as plain text.
package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"director-server/internal/models"
)

const separator = "--------------------------------------------------"

var unsafeRun = regexp.MustCompile(`[^a-z0-9-]+`)

// Script renders the downloadable shooting script: a title/logline/mood header
// followed by one block per cut in ascending sequence order.
func Script(resp *models.DirectorResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", resp.Title)
	fmt.Fprintf(&b, "LOGLINE: %s\n", resp.Logline)
	fmt.Fprintf(&b, "MOOD: %s\n", resp.Mood)

	for _, cut := range sortedCuts(resp.Cuts) {
		b.WriteString("\n")
		fmt.Fprintf(&b, "--- CUT %d (%s) ---\n", cut.Sequence, cut.Title)
		fmt.Fprintf(&b, "ACTION: %s\n", cut.ActionDescription)
		fmt.Fprintf(&b, "VISUALS: %s | %s | %s | %s\n",
			cut.Visuals.CameraMovement, cut.Visuals.Angle, cut.Visuals.Lighting, cut.Visuals.LensChoice)
		fmt.Fprintf(&b, "PROMPT: %s\n", cut.GeneratedPrompt)
	}
	return b.String()
}

// FileName derives the script file name from the title. Runs of characters
// outside [a-z0-9-] become a single underscore, so the result never contains a
// path separator or a dot.
func FileName(title string) string {
	name := unsafeRun.ReplaceAllString(strings.ToLower(title), "_")
	name = strings.Trim(name, "_-")
	if name == "" {
		name = "director"
	}
	return name + "_script.txt"
}

// CutDetails renders the copyable detail block of a single cut.
func CutDetails(cut models.Cut) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[SCENE %d: %s]\n", cut.Sequence, cut.Title)
	b.WriteString(separator + "\n")
	b.WriteString("ACTION & DIALOGUE:\n")
	b.WriteString(cut.ActionDescription + "\n\n")
	b.WriteString("VISUAL SPECS:\n")
	fmt.Fprintf(&b, "- Camera: %s\n", cut.Visuals.CameraMovement)
	fmt.Fprintf(&b, "- Angle: %s\n", cut.Visuals.Angle)
	fmt.Fprintf(&b, "- Lighting: %s\n", cut.Visuals.Lighting)
	fmt.Fprintf(&b, "- Lens: %s\n\n", cut.Visuals.LensChoice)
	b.WriteString("AI GENERATION PROMPT:\n")
	b.WriteString(cut.GeneratedPrompt + "\n")
	b.WriteString(separator)
	return b.String()
}

// Runtime is the total length of the sequence.
func Runtime(resp *models.DirectorResponse) time.Duration {
	return time.Duration(len(resp.Cuts)) * models.CutDuration
}

// FormatRuntime renders a duration as mm:ss, e.g. "00:08s".
func FormatRuntime(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02ds", total/60, total%60)
}

func sortedCuts(cuts []models.Cut) []models.Cut {
	out := append([]models.Cut(nil), cuts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}
