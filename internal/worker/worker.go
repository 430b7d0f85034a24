// Package worker provides the optional NATS ingress: synthesis jobs arriving
// as pipeline events instead of HTTP requests. The worker shares the gateway
// core, so validation and error conversion behave identically on both paths.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/tts-gateway/internal/core"
)

const handleMessageTimeout = 300 * time.Second

// SpeechSynthesizer is the slice of the gateway core the worker needs.
type SpeechSynthesizer interface {
	SynthesizeSpeech(ctx context.Context, text, speakerID string) ([]byte, error)
}

// NatsWorker subscribes to text-processed events and answers each with an
// audio-chunk-created event after uploading the WAV to the object store.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	store          core.ObjectStore
	synthesizer    SpeechSynthesizer
	log            *logger.Logger
}

// NewNatsWorker creates a worker bound to the given subject.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	store core.ObjectStore,
	synthesizer SpeechSynthesizer,
	log *logger.Logger,
) *NatsWorker {
	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		store:          store,
		synthesizer:    synthesizer,
		log:            log,
	}
}

// Run subscribes and blocks until the context is cancelled, then drains.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	var event events.TextProcessedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		w.log.Error("Failed to unmarshal text processed event: %v", err)

		return
	}

	audioKey, processErr := w.processJob(ctx, &event)
	if processErr != nil {
		w.log.Error(
			"Failed to process synthesis job for workflow %s: %v",
			event.Header.WorkflowID, processErr,
		)

		return
	}

	replyEvent := &events.AudioChunkCreatedEvent{
		Header:     event.Header,
		AudioKey:   audioKey,
		PageNumber: event.PageNumber,
		TotalPages: event.TotalPages,
	}

	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		w.log.Error("Failed to marshal reply event: %v", err)

		return
	}

	err = msg.Respond(replyData)
	if err != nil {
		w.log.Error(
			"Failed to publish reply event for workflow %s: %v",
			event.Header.WorkflowID, err,
		)
	}
}

// processJob downloads the job text, synthesizes it through the gateway core,
// and uploads the WAV under a fresh UUID key.
func (w *NatsWorker) processJob(ctx context.Context, event *events.TextProcessedEvent) (string, error) {
	textData, err := w.store.Download(ctx, event.TextKey)
	if err != nil {
		return "", fmt.Errorf("failed to download text data for key '%s': %w", event.TextKey, err)
	}

	audioData, err := w.synthesizer.SynthesizeSpeech(ctx, string(textData), event.Voice)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize speech: %w", err)
	}

	audioKey := uuid.NewString() + ".wav"

	err = w.store.Upload(ctx, audioKey, audioData)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio data for key '%s': %w", audioKey, err)
	}

	return audioKey, nil
}
