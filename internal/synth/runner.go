// Package synth provides exec-based Synthesizer implementations that wrap
// the external model runner binaries for the VCTK and Bark model families.
package synth

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/book-expert/logger"

	"github.com/book-expert/tts-gateway/internal/config"
	"github.com/book-expert/tts-gateway/internal/core"
)

const sampleByteWidth = 4

// Static errors.
var (
	ErrBinaryEmpty        = errors.New("runner binary cannot be empty")
	ErrModelPathEmpty     = errors.New("model path cannot be empty")
	ErrSampleRateInvalid  = errors.New("sample rate must be positive")
	ErrTruncatedWaveform  = errors.New("runner produced a truncated waveform")
	ErrEmptyWaveform      = errors.New("runner produced no samples")
	ErrNoSpeakersReported = errors.New("runner reported no speakers")
)

// Runner invokes one external model runner binary per synthesis request.
// The runner contract: the binary loads its pretrained weights from the model
// path, synthesizes the prompt, and exports raw float32 little-endian samples
// to the file named by --export.
//
// Invocations are serialized with a mutex because the runner binaries make no
// concurrency-safety promises of their own.
type Runner struct {
	cfg config.RunnerConfig
	log *logger.Logger
	mu  sync.Mutex
}

// New creates a Runner for the given runner configuration.
func New(cfg config.RunnerConfig, log *logger.Logger) (*Runner, error) {
	if cfg.Binary == "" {
		return nil, ErrBinaryEmpty
	}

	if cfg.ModelPath == "" {
		return nil, ErrModelPathEmpty
	}

	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrSampleRateInvalid, cfg.SampleRate)
	}

	return &Runner{
		cfg: cfg,
		log: log,
	}, nil
}

// Synthesize runs the binary for one job and returns the decoded waveform.
func (r *Runner) Synthesize(ctx context.Context, job core.SynthesisJob) (*core.Waveform, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tempFile, err := os.CreateTemp("", "tts-waveform-*.f32")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file for runner output: %w", err)
	}

	defer func() {
		removeErr := os.Remove(tempFile.Name())
		if removeErr != nil {
			r.log.Warn("Failed to remove temp file '%s': %v", tempFile.Name(), removeErr)
		}
	}()

	closeErr := tempFile.Close()
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", closeErr)
	}

	voice := job.Voice
	if voice == "" {
		voice = r.cfg.DefaultVoice
	}

	args := []string{
		"--model", r.cfg.ModelPath,
		"--voice", voice,
		"--text", job.Text,
		"--sample-rate", fmt.Sprintf("%d", r.cfg.SampleRate),
		"--export", tempFile.Name(),
	}

	// #nosec G204 -- binary and model path come from validated configuration
	cmd := exec.CommandContext(ctx, r.cfg.Binary, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf(
			"runner %s execution failed: %w - output: %s",
			r.cfg.Binary, err, string(output),
		)
	}

	data, err := os.ReadFile(tempFile.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read waveform from temp file: %w", err)
	}

	samples, err := decodeSamples(data)
	if err != nil {
		return nil, err
	}

	return &core.Waveform{
		Samples:    samples,
		SampleRate: r.cfg.SampleRate,
	}, nil
}

// ListSpeakers asks the runner for the speaker identifiers the loaded model
// supports, one per line on stdout.
func (r *Runner) ListSpeakers(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// #nosec G204 -- binary and model path come from validated configuration
	cmd := exec.CommandContext(ctx, r.cfg.Binary, "--model", r.cfg.ModelPath, "--list-speakers")

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("runner %s failed to list speakers: %w", r.cfg.Binary, err)
	}

	var speakers []string

	for _, line := range strings.Split(string(output), "\n") {
		speaker := strings.TrimSpace(line)
		if speaker != "" {
			speakers = append(speakers, speaker)
		}
	}

	if len(speakers) == 0 {
		return nil, fmt.Errorf("%w: binary %s", ErrNoSpeakersReported, r.cfg.Binary)
	}

	return speakers, nil
}

// Probe verifies that the binary exists and can load its model. A probe
// failure leaves the model flagged as unavailable rather than aborting the
// process.
func (r *Runner) Probe(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// #nosec G204 -- binary and model path come from validated configuration
	cmd := exec.CommandContext(ctx, r.cfg.Binary, "--model", r.cfg.ModelPath, "--probe")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf(
			"runner %s probe failed: %w - output: %s",
			r.cfg.Binary, err, string(output),
		)
	}

	return nil
}

// decodeSamples converts the runner's raw float32 little-endian export into
// a sample slice.
func decodeSamples(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, ErrEmptyWaveform
	}

	if len(data)%sampleByteWidth != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedWaveform, len(data))
	}

	samples := make([]float32, len(data)/sampleByteWidth)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(data[i*sampleByteWidth:])
		samples[i] = math.Float32frombits(bits)
	}

	return samples, nil
}
