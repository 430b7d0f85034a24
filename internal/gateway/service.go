package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/book-expert/logger"

	"github.com/book-expert/tts-gateway/internal/catalog"
	"github.com/book-expert/tts-gateway/internal/core"
	"github.com/book-expert/tts-gateway/internal/wav"
)

// Model names used in health reporting and error detail.
const (
	ModelVCTK = "vctk"
	ModelBark = "bark"
)

// maxSpeakerSuggestions caps how many valid speaker IDs an UnknownSpeaker
// error lists.
const maxSpeakerSuggestions = 5

// logTextPreviewLen limits how much request text is written to the log.
const logTextPreviewLen = 100

// HealthStatus is the on-demand health snapshot returned by /health.
type HealthStatus struct {
	Status      string          `json:"status"`
	Timestamp   time.Time       `json:"timestamp"`
	ModelLoaded map[string]bool `json:"model_loaded"`
}

// Service is the synthesis gateway core. A nil synthesizer marks the
// corresponding model as unavailable; everything else is read-only after
// construction, so the service is safe for concurrent use.
type Service struct {
	vctk           core.Synthesizer
	bark           core.Synthesizer
	catalog        *catalog.Catalog
	defaultSpeaker string
	defaultStyle   string
	log            *logger.Logger
}

// NewService assembles the gateway core from the loaded model handles. Either
// synthesizer may be nil when its model failed to initialize; requests against
// it then fail with ErrModelUnavailable while the other model keeps serving.
func NewService(
	vctk core.Synthesizer,
	bark core.Synthesizer,
	cat *catalog.Catalog,
	defaultSpeaker string,
	defaultStyle string,
	log *logger.Logger,
) *Service {
	return &Service{
		vctk:           vctk,
		bark:           bark,
		catalog:        cat,
		defaultSpeaker: defaultSpeaker,
		defaultStyle:   defaultStyle,
		log:            log,
	}
}

// SynthesizeSpeech runs the multi-speaker model path: validate the text,
// resolve and validate the speaker against the catalog, synthesize, and
// encode the waveform as WAV bytes.
func (s *Service) SynthesizeSpeech(ctx context.Context, text, speakerID string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text parameter is required", ErrInvalidRequest)
	}

	if s.vctk == nil {
		return nil, fmt.Errorf("%w: %s model is not loaded", ErrModelUnavailable, ModelVCTK)
	}

	speaker, err := s.resolveSpeaker(speakerID)
	if err != nil {
		return nil, err
	}

	return s.synthesize(ctx, s.vctk, ModelVCTK, core.SynthesisJob{
		Text:  text,
		Voice: speaker,
	})
}

// SynthesizeExpressive runs the expressive model path. The style hint is
// passed through to the model; an empty hint falls back to the default style.
func (s *Service) SynthesizeExpressive(ctx context.Context, text, style string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text parameter is required", ErrInvalidRequest)
	}

	if s.bark == nil {
		return nil, fmt.Errorf("%w: %s model is not loaded", ErrModelUnavailable, ModelBark)
	}

	style = strings.TrimSpace(style)
	if style == "" {
		style = s.defaultStyle
	}

	return s.synthesize(ctx, s.bark, ModelBark, core.SynthesisJob{
		Text:  text,
		Voice: style,
	})
}

// Speakers returns the catalog contents, or ErrModelUnavailable when the
// multi-speaker model failed to load and the catalog is empty.
func (s *Service) Speakers() ([]string, error) {
	if s.catalog == nil || s.catalog.Empty() {
		return nil, fmt.Errorf(
			"%w: %s model is not loaded, no speakers available",
			ErrModelUnavailable, ModelVCTK,
		)
	}

	return s.catalog.List(), nil
}

// Health reports process liveness and per-model load state. It reads only
// flags fixed at startup and never fails.
func (s *Service) Health() HealthStatus {
	loaded := map[string]bool{
		ModelVCTK: s.vctk != nil,
		ModelBark: s.bark != nil,
	}

	status := "healthy"
	if !loaded[ModelVCTK] || !loaded[ModelBark] {
		status = "degraded"
	}

	return HealthStatus{
		Status:      status,
		Timestamp:   time.Now().UTC(),
		ModelLoaded: loaded,
	}
}

// resolveSpeaker applies the default speaker and validates explicit
// identifiers against the catalog.
func (s *Service) resolveSpeaker(speakerID string) (string, error) {
	speakerID = strings.TrimSpace(speakerID)
	if speakerID == "" {
		return s.defaultSpeaker, nil
	}

	if s.catalog == nil || s.catalog.Empty() {
		return "", fmt.Errorf(
			"%w: %s model loaded without speaker metadata",
			ErrModelUnavailable, ModelVCTK,
		)
	}

	if !s.catalog.Contains(speakerID) {
		return "", fmt.Errorf(
			"%w: invalid speaker_id %q, valid options: %s",
			ErrUnknownSpeaker, speakerID, s.speakerSuggestions(),
		)
	}

	return speakerID, nil
}

func (s *Service) speakerSuggestions() string {
	speakers := s.catalog.List()
	if len(speakers) > maxSpeakerSuggestions {
		speakers = speakers[:maxSpeakerSuggestions]
	}

	return strings.Join(speakers, ", ") + "..."
}

// synthesize invokes the model and encodes the waveform. Any model fault is
// logged with the offending text and surfaced as ErrSynthesisFailed.
func (s *Service) synthesize(
	ctx context.Context,
	model core.Synthesizer,
	modelName string,
	job core.SynthesisJob,
) ([]byte, error) {
	waveform, err := model.Synthesize(ctx, job)
	if err != nil {
		s.log.Error(
			"Synthesis failed: model=%s voice=%s text=%q error=%v",
			modelName, job.Voice, textPreview(job.Text), err,
		)

		return nil, fmt.Errorf("%w: %s model error", ErrSynthesisFailed, modelName)
	}

	audio, err := wav.Encode(waveform)
	if err != nil {
		s.log.Error(
			"WAV encoding failed: model=%s text=%q error=%v",
			modelName, textPreview(job.Text), err,
		)

		return nil, fmt.Errorf("%w: could not encode waveform", ErrSynthesisFailed)
	}

	return audio, nil
}

func textPreview(text string) string {
	if len(text) > logTextPreviewLen {
		return text[:logTextPreviewLen] + "..."
	}

	return text
}
