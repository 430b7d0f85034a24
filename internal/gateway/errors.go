// Package gateway implements the synthesis gateway: request validation,
// model dispatch, WAV packaging, and the HTTP surface in front of it.
package gateway

import (
	"errors"
	"net/http"
)

// The gateway error taxonomy. Every fault coming out of a model runner is
// converted to one of these before it reaches a caller; no runner error
// propagates raw.
var (
	// ErrInvalidRequest indicates malformed or empty input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownSpeaker indicates a speaker identifier not present in the catalog.
	ErrUnknownSpeaker = errors.New("unknown speaker")
	// ErrModelUnavailable indicates the required model failed to load at startup.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrSynthesisFailed indicates the underlying model call failed.
	ErrSynthesisFailed = errors.New("synthesis failed")
)

// Machine-readable error codes used in HTTP error bodies.
const (
	codeInvalidRequest   = "invalid_request"
	codeUnknownSpeaker   = "unknown_speaker"
	codeModelUnavailable = "model_unavailable"
	codeSynthesisFailed  = "synthesis_failed"
	codeInternal         = "internal_error"
)

// statusAndCode maps a taxonomy error to its HTTP status and error code.
func statusAndCode(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, codeInvalidRequest
	case errors.Is(err, ErrUnknownSpeaker):
		return http.StatusBadRequest, codeUnknownSpeaker
	case errors.Is(err, ErrModelUnavailable):
		return http.StatusServiceUnavailable, codeModelUnavailable
	case errors.Is(err, ErrSynthesisFailed):
		return http.StatusInternalServerError, codeSynthesisFailed
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
