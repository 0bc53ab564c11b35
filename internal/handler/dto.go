package handler

import (
	"director-server/internal/export"
	"director-server/internal/session"
)

// SubmitRequest is the body of POST /sessions/:id/submit.
type SubmitRequest struct {
	Idea          string  `json:"idea" binding:"required"`
	CharacterName *string `json:"character_name,omitempty"`
}

// SubmitResponse acknowledges an accepted submission.
type SubmitResponse struct {
	SessionID string         `json:"session_id"`
	RequestID string         `json:"request_id"`
	Status    session.Status `json:"status"`
}

// SessionDTO is a session snapshot with the total runtime of a successful result.
type SessionDTO struct {
	session.State
	Runtime string `json:"runtime,omitempty"`
}

func toSessionDTO(s session.State) SessionDTO {
	dto := SessionDTO{State: s}
	if s.Status == session.StatusSuccess && s.Response != nil {
		dto.Runtime = export.FormatRuntime(export.Runtime(s.Response))
	}
	return dto
}
