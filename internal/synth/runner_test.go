// Package synth_test tests the exec-based model runner adapter.
package synth_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/tts-gateway/internal/config"
	"github.com/book-expert/tts-gateway/internal/core"
	"github.com/book-expert/tts-gateway/internal/synth"
)

// fakeRunnerScript emulates the model runner contract: --list-speakers and
// --probe answer on stdout, a synthesis call writes two float32 samples
// (1.0, -1.0, little-endian) to the --export path.
const fakeRunnerScript = `#!/bin/sh
export_path=""
while [ $# -gt 0 ]; do
	case "$1" in
	--list-speakers)
		printf 'p225\np226\np227\n'
		exit 0
		;;
	--probe)
		printf 'ok\n'
		exit 0
		;;
	--export)
		export_path="$2"
		shift
		;;
	esac
	shift
done
printf '\000\000\200\077\000\000\200\277' > "$export_path"
`

func writeFakeRunner(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fake-runner")

	err := os.WriteFile(path, []byte(fakeRunnerScript), 0o755)
	require.NoError(t, err)

	return path
}

func createTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "synth-test.log")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = log.Close()
	})

	return log
}

func testRunnerConfig(binary string) config.RunnerConfig {
	return config.RunnerConfig{
		Binary:       binary,
		ModelPath:    "models/test.bin",
		SampleRate:   22050,
		DefaultVoice: "p225",
	}
}

func TestNew_ValidatesConfiguration(t *testing.T) {
	t.Parallel()

	log := createTestLogger(t)

	_, err := synth.New(config.RunnerConfig{ModelPath: "m", SampleRate: 1}, log)
	require.ErrorIs(t, err, synth.ErrBinaryEmpty)

	_, err = synth.New(config.RunnerConfig{Binary: "b", SampleRate: 1}, log)
	require.ErrorIs(t, err, synth.ErrModelPathEmpty)

	_, err = synth.New(config.RunnerConfig{Binary: "b", ModelPath: "m"}, log)
	require.ErrorIs(t, err, synth.ErrSampleRateInvalid)

	_, err = synth.New(testRunnerConfig("b"), log)
	require.NoError(t, err)
}

func TestRunner_Synthesize(t *testing.T) {
	t.Parallel()

	runner, err := synth.New(testRunnerConfig(writeFakeRunner(t)), createTestLogger(t))
	require.NoError(t, err)

	waveform, err := runner.Synthesize(context.Background(), core.SynthesisJob{
		Text:  "hello world",
		Voice: "p226",
	})
	require.NoError(t, err)

	assert.Equal(t, 22050, waveform.SampleRate)
	assert.Equal(t, []float32{1.0, -1.0}, waveform.Samples)
}

func TestRunner_SynthesizeFailsWhenBinaryMissing(t *testing.T) {
	t.Parallel()

	cfg := testRunnerConfig(filepath.Join(t.TempDir(), "missing-runner"))

	runner, err := synth.New(cfg, createTestLogger(t))
	require.NoError(t, err)

	_, err = runner.Synthesize(context.Background(), core.SynthesisJob{Text: "hello"})
	require.Error(t, err)
}

func TestRunner_ListSpeakers(t *testing.T) {
	t.Parallel()

	runner, err := synth.New(testRunnerConfig(writeFakeRunner(t)), createTestLogger(t))
	require.NoError(t, err)

	speakers, err := runner.ListSpeakers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"p225", "p226", "p227"}, speakers)
}

func TestRunner_Probe(t *testing.T) {
	t.Parallel()

	runner, err := synth.New(testRunnerConfig(writeFakeRunner(t)), createTestLogger(t))
	require.NoError(t, err)

	require.NoError(t, runner.Probe(context.Background()))

	missing, err := synth.New(
		testRunnerConfig(filepath.Join(t.TempDir(), "missing-runner")),
		createTestLogger(t),
	)
	require.NoError(t, err)

	require.Error(t, missing.Probe(context.Background()))
}
