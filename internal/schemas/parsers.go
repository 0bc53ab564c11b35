package schemas

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"director-server/internal/models"
)

// ParseDirectorResponse decodes and structurally validates a generation payload.
// Every failure wraps models.ErrMalformedPayload and no partial model is returned.
// Cuts in the result are sorted by sequence.
func ParseDirectorResponse(text string) (*models.DirectorResponse, error) {
	body := stripCodeFence(text)

	var resp models.DirectorResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse director response: %v", models.ErrMalformedPayload, err)
	}
	if err := validate(&resp); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedPayload, err)
	}
	return &resp, nil
}

func validate(resp *models.DirectorResponse) error {
	if blank(resp.Title) {
		return fmt.Errorf("missing title")
	}
	if blank(resp.Logline) {
		return fmt.Errorf("missing logline")
	}
	if blank(resp.Mood) {
		return fmt.Errorf("missing mood")
	}
	if len(resp.Cuts) == 0 {
		return fmt.Errorf("cuts must not be empty")
	}

	sort.SliceStable(resp.Cuts, func(i, j int) bool {
		return resp.Cuts[i].Sequence < resp.Cuts[j].Sequence
	})

	for i, c := range resp.Cuts {
		if c.Sequence != i+1 {
			return fmt.Errorf("cut sequence numbers must run 1..%d, got %d at position %d", len(resp.Cuts), c.Sequence, i+1)
		}
		switch {
		case blank(c.Title):
			return fmt.Errorf("cut %d: missing title", c.Sequence)
		case blank(c.ActionDescription):
			return fmt.Errorf("cut %d: missing action_description", c.Sequence)
		case blank(c.GeneratedPrompt):
			return fmt.Errorf("cut %d: missing generated_prompt", c.Sequence)
		case blank(c.Visuals.CameraMovement):
			return fmt.Errorf("cut %d: missing visuals.camera_movement", c.Sequence)
		case blank(c.Visuals.Angle):
			return fmt.Errorf("cut %d: missing visuals.angle", c.Sequence)
		case blank(c.Visuals.Lighting):
			return fmt.Errorf("cut %d: missing visuals.lighting", c.Sequence)
		case blank(c.Visuals.LensChoice):
			return fmt.Errorf("cut %d: missing visuals.lens_choice", c.Sequence)
		}
	}
	return nil
}

// stripCodeFence removes a surrounding ```json ... ``` block some models add
// even in structured-output mode.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
