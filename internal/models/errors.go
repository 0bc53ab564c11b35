package models

import "errors"

// Generation errors.
var (
	ErrMissingCredential = errors.New("missing API credential")
	ErrEmptyResponse     = errors.New("generation service returned no text")
	ErrMalformedPayload  = errors.New("generation payload does not match the director response shape")
	ErrServiceFailure    = errors.New("generation service failure")
)

// Session errors.
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrNoResult          = errors.New("session has no result")
	ErrCutNotFound       = errors.New("cut not found")
	ErrEmptyIdea         = errors.New("idea must not be empty")
	ErrSessionClosed     = errors.New("session closed")
)

// ErrorKind classifies a generation failure.
type ErrorKind string

const (
	KindNone                      ErrorKind = ""
	KindMissingCredential         ErrorKind = "MissingCredential"
	KindEmptyResponse             ErrorKind = "EmptyResponse"
	KindMalformedPayload          ErrorKind = "MalformedPayload"
	KindTransportOrServiceFailure ErrorKind = "TransportOrServiceFailure"
)

// GenerationFailedMessage is the only error text shown to users.
const GenerationFailedMessage = "Failed to generate director's cuts. Please check your API key and try again."

// KindOf maps an error returned by the generation client to its kind.
// Unknown errors count as transport or service failures.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMissingCredential):
		return KindMissingCredential
	case errors.Is(err, ErrEmptyResponse):
		return KindEmptyResponse
	case errors.Is(err, ErrMalformedPayload):
		return KindMalformedPayload
	default:
		return KindTransportOrServiceFailure
	}
}
