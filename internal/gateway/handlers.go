package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// synthesisRequest is the JSON body accepted by the synthesis endpoints.
// SpeakerID applies to the multi-speaker endpoint, Emotion to the expressive
// one; LanguageID is accepted for client compatibility and passed nowhere.
type synthesisRequest struct {
	Text       string `json:"text"`
	SpeakerID  string `json:"speaker_id,omitempty"`
	Emotion    string `json:"emotion,omitempty"`
	LanguageID string `json:"language_id,omitempty"`
}

// speakersResponse is the JSON body of GET /api/speakers.
type speakersResponse struct {
	Speakers []string `json:"speakers"`
}

// errorBody is the JSON error envelope shared by all endpoints.
type errorBody struct {
	ErrorID string `json:"error_id"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

// handleTTS serves the multi-speaker model. POST bodies carry JSON; GET
// requests read text and speaker_id from query parameters for compatibility
// with the original deployment.
func (s *Server) handleTTS(writer http.ResponseWriter, request *http.Request) {
	var req synthesisRequest

	if request.Method == http.MethodGet {
		query := request.URL.Query()
		req.Text = query.Get("text")
		req.SpeakerID = query.Get("speaker_id")
	} else {
		decodeErr := json.NewDecoder(request.Body).Decode(&req)
		if decodeErr != nil {
			s.writeError(writer, fmt.Errorf("%w: malformed JSON body: %v", ErrInvalidRequest, decodeErr))

			return
		}
	}

	audio, err := s.service.SynthesizeSpeech(request.Context(), req.Text, req.SpeakerID)
	if err != nil {
		s.writeError(writer, err)

		return
	}

	writeWAV(writer, audio)
}

// handleBark serves the expressive model.
func (s *Server) handleBark(writer http.ResponseWriter, request *http.Request) {
	var req synthesisRequest

	decodeErr := json.NewDecoder(request.Body).Decode(&req)
	if decodeErr != nil {
		s.writeError(writer, fmt.Errorf("%w: malformed JSON body: %v", ErrInvalidRequest, decodeErr))

		return
	}

	audio, err := s.service.SynthesizeExpressive(request.Context(), req.Text, req.Emotion)
	if err != nil {
		s.writeError(writer, err)

		return
	}

	writeWAV(writer, audio)
}

// handleSpeakers returns the startup speaker catalog.
func (s *Server) handleSpeakers(writer http.ResponseWriter, _ *http.Request) {
	speakers, err := s.service.Speakers()
	if err != nil {
		s.writeError(writer, err)

		return
	}

	writeJSON(writer, http.StatusOK, speakersResponse{Speakers: speakers})
}

// handleHealth reports liveness and model load state. Always 200.
func (s *Server) handleHealth(writer http.ResponseWriter, _ *http.Request) {
	writeJSON(writer, http.StatusOK, s.service.Health())
}

// writeError maps a taxonomy error onto its HTTP status and logs it under a
// generated error ID so a caller report can be matched to the log line.
func (s *Server) writeError(writer http.ResponseWriter, err error) {
	status, code := statusAndCode(err)
	errorID := uuid.NewString()

	s.log.Warn("Request failed: error_id=%s code=%s detail=%v", errorID, code, err)

	writeJSON(writer, status, errorBody{
		ErrorID: errorID,
		Error:   code,
		Detail:  err.Error(),
	})
}

func writeWAV(writer http.ResponseWriter, audio []byte) {
	writer.Header().Set("Content-Type", "audio/wav")
	writer.Header().Set("Content-Disposition", "attachment; filename=tts_output.wav")
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(audio)
}

func writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}
