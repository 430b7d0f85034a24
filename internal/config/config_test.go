// Package config_test tests the configuration loading for the tts-gateway.
package config_test

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/tts-gateway/internal/config"
)

func TestConfigUnmarshal(t *testing.T) {
	t.Parallel()

	tomlData := `
[http]
host = "127.0.0.1"
port = 5002

[gateway]
timeout_seconds = 90

[models.vctk]
binary = "vctk-runner"
model_path = "models/vctk-vits.bin"
sample_rate = 22050
default_voice = "p225"

[models.bark]
binary = "bark-runner"
model_path = "models/bark-small.bin"
sample_rate = 24000
default_voice = "neutral"

[nats]
url = "nats://127.0.0.1:4222"
text_processed_subject = "text.processed"
audio_object_store_bucket = "TTS_AUDIO"
audio_chunk_created_subject = "audio.chunk.created"

[paths]
base_logs_dir = "/var/log/tts-gateway"
models_dir = "models"
`

	var cfg config.Config

	err := toml.Unmarshal([]byte(tomlData), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, 5002, cfg.HTTP.Port)
	assert.Equal(t, "127.0.0.1:5002", cfg.HTTP.Addr())
	assert.Equal(t, 90, cfg.Gateway.TimeoutSeconds)
	assert.Equal(t, "vctk-runner", cfg.Models.VCTK.Binary)
	assert.Equal(t, "models/vctk-vits.bin", cfg.Models.VCTK.ModelPath)
	assert.Equal(t, 22050, cfg.Models.VCTK.SampleRate)
	assert.Equal(t, "p225", cfg.Models.VCTK.DefaultVoice)
	assert.Equal(t, "bark-runner", cfg.Models.Bark.Binary)
	assert.Equal(t, 24000, cfg.Models.Bark.SampleRate)
	assert.Equal(t, "neutral", cfg.Models.Bark.DefaultVoice)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, "text.processed", cfg.NATS.TextProcessedSubject)
	assert.Equal(t, "TTS_AUDIO", cfg.NATS.AudioObjectStoreBucket)
	assert.Equal(t, "audio.chunk.created", cfg.NATS.AudioChunkCreatedSubject)
	assert.Equal(t, "/var/log/tts-gateway", cfg.Paths.BaseLogsDir)
	assert.True(t, cfg.WorkerEnabled())
}

func TestConfigNormalizeDefaults(t *testing.T) {
	t.Parallel()

	var cfg config.Config

	cfg.Normalize()

	assert.Equal(t, config.DefaultHost, cfg.HTTP.Host)
	assert.Equal(t, config.DefaultPort, cfg.HTTP.Port)
	assert.Equal(t, config.DefaultTimeoutSeconds, cfg.Gateway.TimeoutSeconds)
	assert.Equal(t, config.DefaultVCTKSpeaker, cfg.Models.VCTK.DefaultVoice)
	assert.Equal(t, config.DefaultBarkStyle, cfg.Models.Bark.DefaultVoice)
	assert.False(t, cfg.WorkerEnabled())
}
