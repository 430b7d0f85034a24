// Package core defines the core types and interfaces shared by the TTS gateway.
package core

import "context"

// Waveform is the raw output of a synthesis run: floating-point samples in the
// range [-1.0, 1.0] plus the sample rate the model produced them at.
type Waveform struct {
	Samples    []float32
	SampleRate int
}

// SynthesisJob holds the parameters for a single synthesis invocation.
// Voice carries the speaker identifier for multi-speaker models and the
// style/emotion hint for expressive models.
type SynthesisJob struct {
	Text  string
	Voice string
}

// Synthesizer turns text into a waveform. Implementations wrap one loaded
// model and must be safe for concurrent use.
type Synthesizer interface {
	Synthesize(ctx context.Context, job SynthesisJob) (*Waveform, error)
}

// SpeakerLister reports the speaker identifiers a multi-speaker model knows.
type SpeakerLister interface {
	ListSpeakers(ctx context.Context) ([]string, error)
}

// ObjectStore is the contract for downloading job inputs and uploading
// generated audio when the gateway runs as a pipeline worker.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}
