// Package wav_test tests the in-memory WAV encoder.
package wav_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/tts-gateway/internal/core"
	"github.com/book-expert/tts-gateway/internal/wav"
)

func TestEncode_HeaderLayout(t *testing.T) {
	t.Parallel()

	waveform := &core.Waveform{
		Samples:    []float32{0.0, 0.5, -0.5, 0.25},
		SampleRate: 22050,
	}

	data, err := wav.Encode(waveform)
	require.NoError(t, err)

	// 44-byte header plus two bytes per sample.
	require.Len(t, data, 44+len(waveform.Samples)*2)

	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, "data", string(data[36:40]))

	// Declared RIFF chunk size must match the payload length minus the
	// 8-byte chunk preamble.
	chunkSize := binary.LittleEndian.Uint32(data[4:8])
	assert.Equal(t, uint32(len(data)-8), chunkSize)

	// PCM format, mono, 16-bit.
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]))
	assert.Equal(t, uint32(22050), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, uint32(22050*2), binary.LittleEndian.Uint32(data[28:32]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(data[32:34]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(data[34:36]))

	dataSize := binary.LittleEndian.Uint32(data[40:44])
	assert.Equal(t, uint32(len(waveform.Samples)*2), dataSize)
}

func TestEncode_QuantizesAndClamps(t *testing.T) {
	t.Parallel()

	waveform := &core.Waveform{
		Samples:    []float32{0.0, 1.0, -1.0, 2.0, -2.0},
		SampleRate: 16000,
	}

	data, err := wav.Encode(waveform)
	require.NoError(t, err)

	samples := data[44:]
	require.Len(t, samples, 10)

	read := func(i int) int16 {
		return int16(binary.LittleEndian.Uint16(samples[i*2 : i*2+2]))
	}

	assert.Equal(t, int16(0), read(0))
	assert.Equal(t, int16(32767), read(1))
	assert.Equal(t, int16(-32768), read(2))
	// Out-of-range samples clamp instead of wrapping.
	assert.Equal(t, int16(32767), read(3))
	assert.Equal(t, int16(-32768), read(4))
}

func TestEncode_RejectsEmptyWaveform(t *testing.T) {
	t.Parallel()

	_, err := wav.Encode(nil)
	require.ErrorIs(t, err, wav.ErrEmptyWaveform)

	_, err = wav.Encode(&core.Waveform{Samples: nil, SampleRate: 22050})
	require.ErrorIs(t, err, wav.ErrEmptyWaveform)
}

func TestEncode_RejectsInvalidSampleRate(t *testing.T) {
	t.Parallel()

	_, err := wav.Encode(&core.Waveform{Samples: []float32{0.1}, SampleRate: 0})
	require.ErrorIs(t, err, wav.ErrInvalidSampleRate)

	_, err = wav.Encode(&core.Waveform{Samples: []float32{0.1}, SampleRate: -8000})
	require.ErrorIs(t, err, wav.ErrInvalidSampleRate)
}
