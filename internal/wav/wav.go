// Package wav encodes raw synthesis waveforms into an in-memory WAV (RIFF)
// container. The gateway returns every clip as 16-bit PCM mono, little-endian,
// so the header is fixed apart from the sample rate and payload length.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/book-expert/tts-gateway/internal/core"
)

const (
	pcmFormat     = 1
	monoChannels  = 1
	bitsPerSample = 16
	bytesPerSamp  = bitsPerSample / 8

	// headerSize is the canonical 44-byte PCM WAV header.
	headerSize = 44
	// riffChunkBase is the declared RIFF chunk size before the data payload
	// is added (total file size minus the 8-byte RIFF chunk preamble).
	riffChunkBase = headerSize - 8
	fmtChunkSize  = 16
)

var (
	// ErrEmptyWaveform indicates a waveform with no samples.
	ErrEmptyWaveform = errors.New("waveform has no samples")
	// ErrInvalidSampleRate indicates a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)

// header is the 44-byte PCM WAV header laid out for binary.Write.
type header struct {
	ChunkID   [4]byte
	ChunkSize uint32
	Format    [4]byte

	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16

	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

func newHeader(sampleRate int, dataLen uint32) header {
	return header{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     riffChunkBase + dataLen,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: fmtChunkSize,
		AudioFormat:   pcmFormat,
		NumChannels:   monoChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * monoChannels * bytesPerSamp),
		BlockAlign:    monoChannels * bytesPerSamp,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataLen,
	}
}

// Encode converts a waveform into a complete WAV file held in memory.
// Samples are clamped to [-1.0, 1.0] before quantization to int16 so that an
// out-of-range model output cannot wrap around and produce clicks.
func Encode(waveform *core.Waveform) ([]byte, error) {
	if waveform == nil || len(waveform.Samples) == 0 {
		return nil, ErrEmptyWaveform
	}

	if waveform.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleRate, waveform.SampleRate)
	}

	dataLen := uint32(len(waveform.Samples) * bytesPerSamp)

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+int(dataLen)))

	hdr := newHeader(waveform.SampleRate, dataLen)

	err := binary.Write(buf, binary.LittleEndian, hdr)
	if err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	pcm := make([]byte, 0, dataLen)
	for _, sample := range waveform.Samples {
		pcm = binary.LittleEndian.AppendUint16(pcm, uint16(quantize(sample)))
	}

	_, err = buf.Write(pcm)
	if err != nil {
		return nil, fmt.Errorf("failed to write PCM data: %w", err)
	}

	return buf.Bytes(), nil
}

// quantize converts one float sample to a 16-bit PCM value with clamping.
func quantize(sample float32) int16 {
	switch {
	case sample >= 1.0:
		return 32767
	case sample <= -1.0:
		return -32768
	default:
		return int16(sample * 32767)
	}
}
