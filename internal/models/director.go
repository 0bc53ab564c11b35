package models

import "time"

// CutDuration is the fixed length of one cut.
const CutDuration = 8 * time.Second

// VisualDetails describes the camera setup of a cut.
type VisualDetails struct {
	CameraMovement string `json:"camera_movement"`
	Angle          string `json:"angle"`
	Lighting       string `json:"lighting"`
	LensChoice     string `json:"lens_choice"`
}

// Cut is one 8-second segment of the sequence.
type Cut struct {
	Sequence          int           `json:"sequence"`
	Title             string        `json:"title"`
	ActionDescription string        `json:"action_description"`
	Visuals           VisualDetails `json:"visuals"`
	GeneratedPrompt   string        `json:"generated_prompt"`
}

// DirectorResponse is the shooting script returned by the generation service.
// Cuts are ordered by ascending Sequence once parsed.
type DirectorResponse struct {
	Title   string `json:"title"`
	Logline string `json:"logline"`
	Mood    string `json:"mood"`
	Cuts    []Cut  `json:"cuts"`
}

// CutBySequence returns the cut with the given sequence number.
func (r *DirectorResponse) CutBySequence(sequence int) (Cut, bool) {
	for _, c := range r.Cuts {
		if c.Sequence == sequence {
			return c, true
		}
	}
	return Cut{}, false
}
